package user

import "context"

// Repo is the user directory. Lookups return domain.ErrNotFound when no row
// matches and Create returns domain.ErrConflict on a duplicate email.
type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}
