package family

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/family"
	"github.com/NordCoder/Carelink/internal/domain/person"
)

type Usecase struct {
	repo family.Repo
}

func New(repo family.Repo) *Usecase {
	return &Usecase{repo: repo}
}

func (u *Usecase) List(ctx context.Context, userID int64) ([]family.Member, error) {
	items, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list family: %w", err)
	}
	return items, nil
}

func (u *Usecase) Create(ctx context.Context, userID int64, relationship string, d person.Details) (*family.Member, error) {
	rel, err := family.NormalizeRelationship(relationship)
	if err != nil {
		return nil, err
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	m := &family.Member{UserID: userID, Relationship: rel, Details: d}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create family member: %w", err)
	}
	return m, nil
}

// Patch updates a member owned by userID. Members of other users are
// reported as not found.
func (u *Usecase) Patch(ctx context.Context, userID, id int64, p family.Patch) (*family.Member, error) {
	m, err := u.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Relationship != nil {
		rel, err := family.NormalizeRelationship(*p.Relationship)
		if err != nil {
			return nil, err
		}
		m.Relationship = rel
	}
	if err := p.Details.Normalize(); err != nil {
		return nil, err
	}
	m.Apply(p.Details)
	if err := u.repo.Update(ctx, m); err != nil {
		return nil, mapErr("update family member", err)
	}
	return m, nil
}

func (u *Usecase) Delete(ctx context.Context, userID, id int64) error {
	if _, err := u.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapErr("delete family member", err)
	}
	return nil
}

func (u *Usecase) owned(ctx context.Context, userID, id int64) (*family.Member, error) {
	m, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr("get family member", err)
	}
	if m.UserID != userID {
		return nil, family.ErrNotFound
	}
	return m, nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return family.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
