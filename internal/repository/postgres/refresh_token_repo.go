package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/Carelink/internal/domain/auth"
)

var _ auth.RefreshTokenRepo = (*RefreshTokenRepo)(nil)

type RefreshTokenRepo struct{ db *DB }

func NewRefreshTokenRepo(db *DB) *RefreshTokenRepo { return &RefreshTokenRepo{db: db} }

const (
	qRTCreate = `
INSERT INTO refresh_tokens (user_id, token_hash, revoked, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;`

	qRTByHash = `
SELECT id, user_id, token_hash, revoked, created_at, expires_at
FROM refresh_tokens
WHERE token_hash = $1;`

	qRTRevoke = `
UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1;`

	qRTRevokeActive = `
UPDATE refresh_tokens
SET revoked = TRUE
WHERE token_hash = $1 AND revoked = FALSE AND expires_at > $2;`
)

func (r *RefreshTokenRepo) Create(ctx context.Context, t *auth.RefreshToken) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err := r.db.execQueryer(ctx).
		QueryRow(ctx, qRTCreate, t.UserID, t.TokenHash, t.Revoked, t.CreatedAt, t.ExpiresAt).
		Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("refresh insert: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var t auth.RefreshToken
	err := r.db.execQueryer(ctx).QueryRow(ctx, qRTByHash, tokenHash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Revoked, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("refresh by hash: %w", err)
	}
	return &t, nil
}

func (r *RefreshTokenRepo) Revoke(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qRTRevoke, id); err != nil {
		return fmt.Errorf("revoke refresh: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) RevokeActive(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.execQueryer(ctx).Exec(ctx, qRTRevokeActive, tokenHash, now)
	if err != nil {
		return false, fmt.Errorf("revoke active refresh: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
