package family

import (
	"context"
	"time"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/person"
)

var (
	ErrNotFound            = domain.Detail(domain.ErrNotFound, "family member not found")
	ErrInvalidRelationship = domain.Detail(domain.ErrInvalidInput, "invalid relationship")
)

type Member struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Relationship string `json:"relationship"`
	person.Details
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch changes only the fields that are set.
type Patch struct {
	Relationship *string `json:"relationship"`
	person.Details
}

var relationships = map[string]string{
	"child":  "child",
	"spouse": "spouse",
	"father": "father",
	"mother": "mother",
	"자녀":     "child",
	"배우자":    "spouse",
	"부":      "father",
	"모":      "mother",
}

func NormalizeRelationship(r string) (string, error) {
	v, ok := relationships[r]
	if !ok {
		return "", ErrInvalidRelationship
	}
	return v, nil
}

type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]Member, error)
	// GetByID returns domain.ErrNotFound when no member has the id.
	GetByID(ctx context.Context, id int64) (*Member, error)
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id int64) error
}
