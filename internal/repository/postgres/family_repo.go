package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/Carelink/internal/domain/family"
)

var _ family.Repo = (*FamilyRepo)(nil)

type FamilyRepo struct{ db *DB }

func NewFamilyRepo(db *DB) *FamilyRepo { return &FamilyRepo{db: db} }

const familyCols = `id, user_id, relationship, name, birth_date, gender, height, weight, allergy, medication, created_at, updated_at`

const (
	qFamilyByUser = `
SELECT ` + familyCols + `
FROM user_families
WHERE user_id = $1
ORDER BY id;`

	qFamilyByID = `
SELECT ` + familyCols + `
FROM user_families
WHERE id = $1;`

	qFamilyInsert = `
INSERT INTO user_families (user_id, relationship, name, birth_date, gender, height, weight, allergy, medication)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + familyCols + `;`

	qFamilyUpdate = `
UPDATE user_families
SET relationship = $3,
    name         = $4,
    birth_date   = $5,
    gender       = $6,
    height       = $7,
    weight       = $8,
    allergy      = $9,
    medication   = $10,
    updated_at   = NOW()
WHERE id = $1 AND user_id = $2
RETURNING ` + familyCols + `;`

	qFamilyDelete = `DELETE FROM user_families WHERE id = $1;`
)

func (r *FamilyRepo) ListByUser(ctx context.Context, userID int64) ([]family.Member, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qFamilyByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("family list: %w", err)
	}
	defer rows.Close()

	out := make([]family.Member, 0)
	for rows.Next() {
		var m family.Member
		if err := rows.Scan(familyDest(&m)...); err != nil {
			return nil, fmt.Errorf("family scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *FamilyRepo) GetByID(ctx context.Context, id int64) (*family.Member, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var m family.Member
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qFamilyByID, id).Scan(familyDest(&m)...); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("family by id: %w", err)
	}
	return &m, nil
}

func (r *FamilyRepo) Create(ctx context.Context, m *family.Member) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err := r.db.execQueryer(ctx).QueryRow(ctx, qFamilyInsert,
		m.UserID, m.Relationship, m.Name, m.BirthDate, m.Gender, m.Height, m.Weight,
		jsonbArg(m.Allergy), jsonbArg(m.Medication),
	).Scan(familyDest(m)...)
	if err != nil {
		return fmt.Errorf("family insert: %w", err)
	}
	return nil
}

func (r *FamilyRepo) Update(ctx context.Context, m *family.Member) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err := r.db.execQueryer(ctx).QueryRow(ctx, qFamilyUpdate,
		m.ID, m.UserID, m.Relationship, m.Name, m.BirthDate, m.Gender, m.Height, m.Weight,
		jsonbArg(m.Allergy), jsonbArg(m.Medication),
	).Scan(familyDest(m)...)
	if err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return fmt.Errorf("family update: %w", err)
	}
	return nil
}

func (r *FamilyRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.execQueryer(ctx).Exec(ctx, qFamilyDelete, id)
	if err != nil {
		return fmt.Errorf("family delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func familyDest(m *family.Member) []any {
	return []any{
		&m.ID, &m.UserID, &m.Relationship, &m.Name, &m.BirthDate, &m.Gender, &m.Height, &m.Weight,
		&m.Allergy, &m.Medication, &m.CreatedAt, &m.UpdatedAt,
	}
}
