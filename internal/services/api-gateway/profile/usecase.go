package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/person"
	"github.com/NordCoder/Carelink/internal/domain/profile"
)

type Usecase struct {
	repo profile.Repo
}

func New(repo profile.Repo) *Usecase {
	return &Usecase{repo: repo}
}

func (u *Usecase) Get(ctx context.Context, userID int64) (*profile.Profile, error) {
	p, err := u.repo.Get(ctx, userID)
	if err != nil {
		return nil, mapErr("get profile", err)
	}
	return p, nil
}

// Put replaces the whole profile, creating it on first use. Fields missing
// from d are cleared.
func (u *Usecase) Put(ctx context.Context, userID int64, d person.Details) (*profile.Profile, bool, error) {
	if err := d.Normalize(); err != nil {
		return nil, false, err
	}
	p := &profile.Profile{UserID: userID, Details: d}
	created, err := u.repo.Upsert(ctx, p)
	if err != nil {
		return nil, false, fmt.Errorf("upsert profile: %w", err)
	}
	return p, created, nil
}

// Patch changes only the fields set in patch.
func (u *Usecase) Patch(ctx context.Context, userID int64, patch person.Details) (*profile.Profile, error) {
	if err := patch.Normalize(); err != nil {
		return nil, err
	}
	p, err := u.repo.Get(ctx, userID)
	if err != nil {
		return nil, mapErr("get profile", err)
	}
	p.Apply(patch)
	if err := u.repo.Update(ctx, p); err != nil {
		return nil, mapErr("update profile", err)
	}
	return p, nil
}

func (u *Usecase) Delete(ctx context.Context, userID int64) error {
	if err := u.repo.Delete(ctx, userID); err != nil {
		return mapErr("delete profile", err)
	}
	return nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return profile.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
