package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/NordCoder/Carelink/internal/domain/auth"
)

var (
	ErrTokenSignature = fmt.Errorf("%w: bad signature", domainauth.ErrInvalidAccessToken)
	ErrTokenExpired   = fmt.Errorf("%w: expired", domainauth.ErrInvalidAccessToken)
	ErrTokenMalformed = fmt.Errorf("%w: malformed", domainauth.ErrInvalidAccessToken)
)

// TokenCodec signs and verifies HS256 access tokens carrying {sub, exp}.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source, used by tests.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func (c *TokenCodec) Encode(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(c.now().Add(c.ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return s, nil
}

// Decode returns the subject id. Every failure matches
// domainauth.ErrInvalidAccessToken.
func (c *TokenCodec) Decode(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return 0, ErrTokenSignature
	default:
		return 0, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", ErrTokenMalformed, claims.Subject)
	}
	return id, nil
}
