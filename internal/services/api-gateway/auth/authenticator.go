package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Carelink/internal/domain"
	domainauth "github.com/NordCoder/Carelink/internal/domain/auth"
	"github.com/NordCoder/Carelink/internal/domain/user"
)

type TokenDecoder interface {
	Decode(token string) (int64, error)
}

// Authenticator resolves a bearer access token to the account it was
// issued for.
type Authenticator struct {
	codec TokenDecoder
	users user.Repo
}

func NewAuthenticator(codec TokenDecoder, users user.Repo) *Authenticator {
	return &Authenticator{codec: codec, users: users}
}

// Authenticate fails with an error matching ErrInvalidAccessToken when the
// token does not decode and with ErrUserNotFound when the account is gone.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (domainauth.Identity, error) {
	id, err := a.codec.Decode(raw)
	if err != nil {
		if !errors.Is(err, domainauth.ErrInvalidAccessToken) {
			err = fmt.Errorf("%w: %w", domainauth.ErrInvalidAccessToken, err)
		}
		return domainauth.Identity{}, err
	}
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domainauth.Identity{}, domainauth.ErrUserNotFound
		}
		return domainauth.Identity{}, fmt.Errorf("resolve user: %w", err)
	}
	return domainauth.Identity{UserID: u.ID, Email: u.Email}, nil
}
