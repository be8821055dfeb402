package autocall

import (
	"context"
	"time"
)

// Request asks the call center to phone the listed hospitals on behalf of a user.
type Request struct {
	RequestID   string    `json:"request_id"`
	UserID      int64     `json:"user_id"`
	HospitalIDs []int64   `json:"hospital_ids"`
	RequestedAt time.Time `json:"requested_at"`
}

type Events interface {
	PublishAutoCallRequested(ctx context.Context, r Request) error
}
