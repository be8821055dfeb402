package profile

import (
	"context"
	"time"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/person"
)

var ErrNotFound = domain.Detail(domain.ErrNotFound, "profile not found")

type Profile struct {
	ID     int64 `json:"-"`
	UserID int64 `json:"user_id"`
	person.Details
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repo interface {
	// Get returns domain.ErrNotFound when the user has no profile.
	Get(ctx context.Context, userID int64) (*Profile, error)
	// Upsert creates or fully replaces the profile and reports whether it was created.
	Upsert(ctx context.Context, p *Profile) (created bool, err error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, userID int64) error
}
