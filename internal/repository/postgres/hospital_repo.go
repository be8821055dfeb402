package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/NordCoder/Carelink/internal/domain/hospital"
)

var _ hospital.Repo = (*HospitalRepo)(nil)

type HospitalRepo struct{ db *DB }

func NewHospitalRepo(db *DB) *HospitalRepo { return &HospitalRepo{db: db} }

const (
	qHospitalCount = `
SELECT count(*)
FROM hospitals
WHERE $1 = '' OR name ILIKE '%' || $1 || '%' ESCAPE '\';`

	qHospitalList = `
SELECT id, name, is_open, distance_km, address, er_beds, operating_rooms, created_at
FROM hospitals
WHERE $1 = '' OR name ILIKE '%' || $1 || '%' ESCAPE '\'
ORDER BY id
LIMIT $2 OFFSET $3;`

	qHospitalByID = `
SELECT id, name, is_open, distance_km, address, er_beds, operating_rooms, created_at
FROM hospitals
WHERE id = $1;`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *HospitalRepo) List(ctx context.Context, q hospital.Query) ([]hospital.Hospital, int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	pattern := likeEscaper.Replace(q.Q)

	var total int64
	if err := eq.QueryRow(ctx, qHospitalCount, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("hospital count: %w", err)
	}

	rows, err := eq.Query(ctx, qHospitalList, pattern, q.Size, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("hospital list: %w", err)
	}
	defer rows.Close()

	items := make([]hospital.Hospital, 0, q.Size)
	for rows.Next() {
		var h hospital.Hospital
		if err := rows.Scan(hospitalDest(&h)...); err != nil {
			return nil, 0, fmt.Errorf("hospital scan: %w", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("hospital rows: %w", err)
	}
	return items, total, nil
}

func (r *HospitalRepo) GetByID(ctx context.Context, id int64) (*hospital.Hospital, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var h hospital.Hospital
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qHospitalByID, id).Scan(hospitalDest(&h)...); err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("hospital by id: %w", err)
	}
	return &h, nil
}

func hospitalDest(h *hospital.Hospital) []any {
	return []any{&h.ID, &h.Name, &h.IsOpen, &h.DistanceKm, &h.Address, &h.ERBeds, &h.OperatingRooms, &h.CreatedAt}
}
