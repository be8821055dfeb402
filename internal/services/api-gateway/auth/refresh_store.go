package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Carelink/internal/auth"
	"github.com/NordCoder/Carelink/internal/domain"
	domainauth "github.com/NordCoder/Carelink/internal/domain/auth"
)

// RefreshStore issues opaque refresh tokens and keeps only their digests.
type RefreshStore struct {
	repo domainauth.RefreshTokenRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewRefreshStore(repo domainauth.RefreshTokenRepo, ttl time.Duration, now func() time.Time) *RefreshStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RefreshStore{repo: repo, ttl: ttl, now: now}
}

func (s *RefreshStore) TTL() time.Duration { return s.ttl }

// Issue mints a token for userID valid for the store's TTL from now and
// returns the raw value, which is never persisted.
func (s *RefreshStore) Issue(ctx context.Context, userID int64) (string, *domainauth.RefreshToken, error) {
	raw, err := auth.GenerateRawToken(auth.RefreshTokenBytes)
	if err != nil {
		return "", nil, fmt.Errorf("generate refresh: %w", err)
	}
	now := s.now()
	rec := &domainauth.RefreshToken{
		UserID:    userID,
		TokenHash: auth.HashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", nil, fmt.Errorf("save refresh: %w", err)
	}
	return raw, rec, nil
}

// Lookup finds a token by exact value whatever its state. It returns
// domain.ErrNotFound for unknown values.
func (s *RefreshStore) Lookup(ctx context.Context, raw string) (*domainauth.RefreshToken, error) {
	if raw == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByHash(ctx, auth.HashToken(raw))
}

func (s *RefreshStore) Revoke(ctx context.Context, rec *domainauth.RefreshToken) error {
	if err := s.repo.Revoke(ctx, rec.ID); err != nil {
		return err
	}
	rec.Revoked = true
	return nil
}

// Consume revokes a usable token and returns it. Of several concurrent
// calls with the same value at most one succeeds; the rest, like unknown,
// revoked or expired tokens, get ErrInvalidRefreshToken.
func (s *RefreshStore) Consume(ctx context.Context, raw string) (*domainauth.RefreshToken, error) {
	rec, err := s.Lookup(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domainauth.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh: %w", err)
	}
	now := s.now()
	if !rec.Usable(now) {
		return nil, domainauth.ErrInvalidRefreshToken
	}
	won, err := s.repo.RevokeActive(ctx, rec.TokenHash, now)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh: %w", err)
	}
	if !won {
		return nil, domainauth.ErrInvalidRefreshToken
	}
	rec.Revoked = true
	return rec, nil
}
