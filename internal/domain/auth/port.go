package auth

import (
	"context"
	"time"
)

type RefreshTokenRepo interface {
	Create(ctx context.Context, t *RefreshToken) error
	// GetByHash returns domain.ErrNotFound when no token has the digest.
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	// Revoke marks the token revoked. Revoking twice is not an error.
	Revoke(ctx context.Context, id int64) error
	// RevokeActive revokes the token only if it is still usable at now and
	// reports whether this call performed the transition.
	RevokeActive(ctx context.Context, tokenHash string, now time.Time) (bool, error)
}
