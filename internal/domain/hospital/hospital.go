package hospital

import (
	"context"
	"math"
	"time"

	"github.com/NordCoder/Carelink/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*size within int for every accepted size.
	MaxPage = math.MaxInt / MaxPageSize
)

var (
	ErrNotFound = domain.Detail(domain.ErrNotFound, "hospital not found")
	ErrReadOnly = domain.Detail(domain.ErrReadOnly, "hospitals are read-only resources")
)

type Hospital struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	IsOpen         bool      `json:"is_open"`
	DistanceKm     *float64  `json:"distance_km"`
	Address        *string   `json:"address"`
	ERBeds         *int      `json:"er_beds"`
	OperatingRooms *int      `json:"operating_rooms"`
	CreatedAt      time.Time `json:"-"`
}

// Query selects a page of hospitals whose name contains Q, case-insensitively.
type Query struct {
	Q    string
	Page int
	Size int
}

func (q Query) Validate() error {
	if q.Page < 1 {
		return domain.Detail(domain.ErrInvalidInput, "page must be >= 1")
	}
	if q.Page > MaxPage {
		return domain.Detail(domain.ErrInvalidInput, "page is too large")
	}
	if q.Size < 1 || q.Size > MaxPageSize {
		return domain.Detail(domain.ErrInvalidInput, "size must be between 1 and 100")
	}
	return nil
}

func (q Query) Offset() int { return (q.Page - 1) * q.Size }

type Page struct {
	Items []Hospital `json:"items"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
	Total int64      `json:"total"`
}

type Repo interface {
	List(ctx context.Context, q Query) (items []Hospital, total int64, err error)
	// GetByID returns domain.ErrNotFound when no hospital has the id.
	GetByID(ctx context.Context, id int64) (*Hospital, error)
}
