package autocall

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain"
	domainauth "github.com/NordCoder/Carelink/internal/domain/auth"
	"github.com/NordCoder/Carelink/internal/domain/autocall"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/repository/memory"
	"github.com/NordCoder/Carelink/internal/services/api-gateway/auth"
)

var fixed = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func TestTrigger_EnqueuesRequest(t *testing.T) {
	ob := memory.NewOutboxRepo()
	uc := New(ob, memory.Transactor{}, func() time.Time { return fixed }, nil)

	res, err := uc.Trigger(context.Background(), 5, []int64{10, 11})
	require.NoError(t, err)
	assert.True(t, res.Triggered)
	require.NotEmpty(t, res.RequestID)

	msgs := ob.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, res.RequestID, msgs[0].IdempotencyKey)
	assert.Equal(t, outbox.KindAutoCallRequested, msgs[0].Kind)

	var req autocall.Request
	require.NoError(t, json.Unmarshal(msgs[0].Data, &req))
	assert.Equal(t, autocall.Request{RequestID: res.RequestID, UserID: 5, HospitalIDs: []int64{10, 11}, RequestedAt: fixed}, req)
}

func TestTrigger_EmptyListTriggersNothing(t *testing.T) {
	ob := memory.NewOutboxRepo()
	uc := New(ob, memory.Transactor{}, nil, nil)

	res, err := uc.Trigger(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.False(t, res.Triggered)
	assert.Empty(t, res.RequestID)
	assert.Empty(t, ob.Messages())
}

func TestTrigger_RejectsBadIDs(t *testing.T) {
	uc := New(memory.NewOutboxRepo(), memory.Transactor{}, nil, nil)
	_, err := uc.Trigger(context.Background(), 5, []int64{3, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingTx struct{}

func (failingTx) WithTx(context.Context, func(context.Context) error) error {
	return errors.New("db down")
}

func TestTrigger_EnqueueFailure(t *testing.T) {
	uc := New(memory.NewOutboxRepo(), failingTx{}, nil, nil)
	_, err := uc.Trigger(context.Background(), 5, []int64{1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHandler(t *testing.T) {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), domainauth.Identity{UserID: 9})))
		})
	})
	NewHandler(New(nil, memory.Transactor{}, nil, nil), zap.NewNop()).Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auto-call/trigger", strings.NewReader(`{"hospital_ids":[]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"triggered":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auto-call/trigger", strings.NewReader(`{"hospital_ids":[1,2]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Triggered)
	assert.NotEmpty(t, res.RequestID)
}
