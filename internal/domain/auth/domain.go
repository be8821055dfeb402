package auth

import (
	"time"
)

// RefreshToken is a persisted, single-use refresh credential. Only the
// SHA-256 digest of the opaque value is stored.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	Revoked   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Usable reports whether the token may still be exchanged at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID int64
	Email  string
}

const TokenTypeBearer = "bearer"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
