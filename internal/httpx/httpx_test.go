package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/auth"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{auth.ErrEmailAlreadyRegistered, http.StatusBadRequest},
		{domain.Detail(domain.ErrInvalidInput, "invalid gender"), http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: expired", auth.ErrInvalidAccessToken), http.StatusUnauthorized},
		{auth.ErrUserNotFound, http.StatusUnauthorized},
		{domain.Detail(domain.ErrForbidden, "forbidden"), http.StatusForbidden},
		{domain.Detail(domain.ErrNotFound, "profile not found"), http.StatusNotFound},
		{domain.Detail(domain.ErrReadOnly, "read only"), http.StatusMethodNotAllowed},
		{domain.ErrConflict, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
		{fmt.Errorf("user insert: %w", errors.New("db")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err.Error())
	}
}

func TestDetailFor(t *testing.T) {
	assert.Equal(t, "invalid token", DetailFor(fmt.Errorf("%w: bad signature", auth.ErrInvalidAccessToken)))
	assert.Equal(t, "internal server error", DetailFor(errors.New("pq: password authentication failed")))
	assert.Equal(t, "profile not found", DetailFor(domain.Detail(domain.ErrNotFound, "profile not found")))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), zap.NewNop(), auth.ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid credentials", body.Detail)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &p))
	assert.Equal(t, "a@b.c", p.Email)

	p = payload{}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	err := DecodeJSON(httptest.NewRecorder(), req, &p)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":1}`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &p), domain.ErrInvalidInput)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{} {}`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &p), domain.ErrInvalidInput)

	big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	err = DecodeJSON(httptest.NewRecorder(), req, &p)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "request body too large", err.Error())
}

func TestPathInt64(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "17"})
	id, err := PathInt64(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": bad})
		_, err := PathInt64(req, "id")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, bad)
	}
}

func TestQueryInt(t *testing.T) {
	v, err := QueryInt(httptest.NewRequest(http.MethodGet, "/?page=3", nil), "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = QueryInt(httptest.NewRequest(http.MethodGet, "/", nil), "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = QueryInt(httptest.NewRequest(http.MethodGet, "/?page=x", nil), "page", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
