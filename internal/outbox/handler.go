package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/NordCoder/Carelink/internal/domain/autocall"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/obs/retry"
)

var (
	outboxHandlerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_handler_latency_seconds",
		Help:    "Latency of outbox handlers including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	outboxHandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_handler_errors_total",
		Help: "Errors in outbox handlers (after retries).",
	}, []string{"kind"})
)

func instrument(kind outbox.Kind, h outbox.KindHandler, pol retry.Policy) outbox.KindHandler {
	tr := otel.Tracer("outbox.handler")
	name := kind.String()
	if pol.Name == "" {
		pol.Name = "outbox_" + name
	}
	h = WrapKindHandler(h, pol)
	return func(ctx context.Context, data []byte) error {
		ctx, span := tr.Start(ctx, "outbox.handle", trace.WithAttributes(attribute.String("outbox.kind", name)))
		defer span.End()

		start := time.Now()
		err := h(ctx, data)
		outboxHandlerLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			outboxHandlerErrors.WithLabelValues(name).Inc()
		}
		return err
	}
}

// MakeGlobalOutboxHandler routes each kind to its publisher.
func MakeGlobalOutboxHandler(autoCalls autocall.Events, pol retry.Policy) outbox.GlobalHandler {
	autoCallHandler := instrument(outbox.KindAutoCallRequested, func(ctx context.Context, data []byte) error {
		var r autocall.Request
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("unmarshal auto-call payload: %w", err)
		}
		return autoCalls.PublishAutoCallRequested(ctx, r)
	}, pol)

	return func(kind outbox.Kind) (outbox.KindHandler, error) {
		switch kind {
		case outbox.KindAutoCallRequested:
			return autoCallHandler, nil
		default:
			return nil, fmt.Errorf("unsupported outbox kind: %d", kind)
		}
	}
}
