package autocall

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/autocall"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/obs"
)

var ErrInvalidHospitalID = domain.Detail(domain.ErrInvalidInput, "invalid hospital id")

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Result struct {
	Triggered bool   `json:"triggered"`
	RequestID string `json:"request_id,omitempty"`
}

type Usecase struct {
	outbox outbox.Repository
	tx     Transactor
	clk    func() time.Time
	log    *zap.Logger
	tracer trace.Tracer
}

// New builds the trigger. A nil outbox accepts requests without relaying
// them anywhere.
func New(ob outbox.Repository, tx Transactor, clk func() time.Time, log *zap.Logger) *Usecase {
	if clk == nil {
		clk = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		outbox: ob,
		tx:     tx,
		clk:    clk,
		log:    log,
		tracer: otel.Tracer("autocall.usecase"),
	}
}

// Trigger records an auto-call request for the hospitals. An empty list is
// not an error and triggers nothing.
func (u *Usecase) Trigger(ctx context.Context, userID int64, hospitalIDs []int64) (*Result, error) {
	ctx, span := u.tracer.Start(ctx, "autocall.trigger")
	defer span.End()

	if len(hospitalIDs) == 0 {
		return &Result{Triggered: false}, nil
	}
	for _, id := range hospitalIDs {
		if id <= 0 {
			return nil, ErrInvalidHospitalID
		}
	}

	req := autocall.Request{
		RequestID:   uuid.NewString(),
		UserID:      userID,
		HospitalIDs: hospitalIDs,
		RequestedAt: u.clk(),
	}
	span.SetAttributes(
		attribute.String("autocall.request_id", req.RequestID),
		attribute.Int("autocall.hospitals", len(hospitalIDs)),
	)

	if u.outbox != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshal auto-call request: %w", err)
		}
		err = u.tx.WithTx(ctx, func(ctx context.Context) error {
			return u.outbox.Enqueue(ctx, req.RequestID, outbox.KindAutoCallRequested, data)
		})
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("enqueue auto-call request: %w", err)
		}
	}

	obs.WithTrace(ctx, u.log).Info("auto-call triggered",
		zap.String("request_id", req.RequestID),
		zap.Int64("user_id", userID),
		zap.Int64s("hospital_ids", hospitalIDs))
	return &Result{Triggered: true, RequestID: req.RequestID}, nil
}
