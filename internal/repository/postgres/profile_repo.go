package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/Carelink/internal/domain/profile"
)

var _ profile.Repo = (*ProfileRepo)(nil)

type ProfileRepo struct{ db *DB }

func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileCols = `id, user_id, name, birth_date, gender, height, weight, allergy, medication, created_at, updated_at`

const (
	qProfileByUser = `
SELECT ` + profileCols + `
FROM user_profiles
WHERE user_id = $1;`

	qProfileUpsert = `
INSERT INTO user_profiles (user_id, name, birth_date, gender, height, weight, allergy, medication)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) DO UPDATE
SET name       = EXCLUDED.name,
    birth_date = EXCLUDED.birth_date,
    gender     = EXCLUDED.gender,
    height     = EXCLUDED.height,
    weight     = EXCLUDED.weight,
    allergy    = EXCLUDED.allergy,
    medication = EXCLUDED.medication,
    updated_at = NOW()
RETURNING ` + profileCols + `, (xmax = 0) AS inserted;`

	qProfileUpdate = `
UPDATE user_profiles
SET name       = $2,
    birth_date = $3,
    gender     = $4,
    height     = $5,
    weight     = $6,
    allergy    = $7,
    medication = $8,
    updated_at = NOW()
WHERE user_id = $1
RETURNING ` + profileCols + `;`

	qProfileDelete = `DELETE FROM user_profiles WHERE user_id = $1;`
)

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (*profile.Profile, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var p profile.Profile
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qProfileByUser, userID).Scan(profileDest(&p)...); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile by user: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, p *profile.Profile) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var inserted bool
	dest := append(profileDest(p), &inserted)
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qProfileUpsert, profileArgs(p)...).Scan(dest...); err != nil {
		return false, fmt.Errorf("profile upsert: %w", err)
	}
	return inserted, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.execQueryer(ctx).QueryRow(ctx, qProfileUpdate, profileArgs(p)...).Scan(profileDest(p)...); err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return fmt.Errorf("profile update: %w", err)
	}
	return nil
}

func (r *ProfileRepo) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.execQueryer(ctx).Exec(ctx, qProfileDelete, userID)
	if err != nil {
		return fmt.Errorf("profile delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func profileArgs(p *profile.Profile) []any {
	return []any{
		p.UserID, p.Name, p.BirthDate, p.Gender, p.Height, p.Weight,
		jsonbArg(p.Allergy), jsonbArg(p.Medication),
	}
}

func profileDest(p *profile.Profile) []any {
	return []any{
		&p.ID, &p.UserID, &p.Name, &p.BirthDate, &p.Gender, &p.Height, &p.Weight,
		&p.Allergy, &p.Medication, &p.CreatedAt, &p.UpdatedAt,
	}
}
