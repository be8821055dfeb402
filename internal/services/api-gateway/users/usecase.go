package users

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/user"
	"github.com/NordCoder/Carelink/internal/obs"
)

var (
	ErrForbidden = domain.Detail(domain.ErrForbidden, "forbidden")
	ErrNotFound  = domain.Detail(domain.ErrNotFound, "user not found")
)

type Usecase struct {
	repo user.Repo
	log  *zap.Logger
}

func New(repo user.Repo, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, log: log}
}

// Get returns the account targetID on behalf of requesterID. Users may only
// see themselves.
func (u *Usecase) Get(ctx context.Context, requesterID, targetID int64) (*user.User, error) {
	if requesterID != targetID {
		return nil, ErrForbidden
	}
	return u.load(ctx, targetID)
}

// Touch bumps updated_at. No account field is editable yet.
func (u *Usecase) Touch(ctx context.Context, requesterID, targetID int64) (*user.User, error) {
	if requesterID != targetID {
		return nil, ErrForbidden
	}
	cur, err := u.load(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, cur); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return cur, nil
}

// Delete removes the account together with its sessions, profile and
// family records.
func (u *Usecase) Delete(ctx context.Context, requesterID, targetID int64) error {
	if requesterID != targetID {
		return ErrForbidden
	}
	if err := u.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	obs.WithTrace(ctx, u.log).Info("user deleted", zap.Int64("user_id", targetID))
	return nil
}

func (u *Usecase) load(ctx context.Context, id int64) (*user.User, error) {
	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return cur, nil
}
