package obs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	assert.Nil(t, WithTrace(context.Background(), nil))
	WithTrace(context.Background(), base).Info("bare")

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = context.WithValue(ctx, requestIDKey{}, "req-1")
	WithTrace(ctx, base).Info("tagged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())

	tagged := entries[1].ContextMap()
	assert.Equal(t, sc.TraceID().String(), tagged["trace_id"])
	assert.Equal(t, sc.SpanID().String(), tagged["span_id"])
	assert.Equal(t, "req-1", tagged["request_id"])
}

func TestAccessLog_CarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestID(AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "abc-123", logs.All()[0].ContextMap()["request_id"])
}
