// Package httpx holds the JSON codec and error mapping shared by every
// HTTP handler of the gateway.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/auth"
	"github.com/NordCoder/Carelink/internal/obs"
)

const maxBodyBytes = 1 << 20

type ErrorBody struct {
	Detail string `json:"detail"`
}

type Message struct {
	Msg string `json:"msg"`
}

// DecodeJSON reads one JSON value from the body into dst. An empty body is
// treated as {} so that bodies made only of optional fields may be omitted.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return domain.Detail(domain.ErrInvalidInput, "request body too large")
		}
		return domain.Detail(domain.ErrInvalidInput, fmt.Sprintf("invalid request body: %v", err))
	}
	if dec.More() {
		return domain.Detail(domain.ErrInvalidInput, "invalid request body: trailing data")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// WriteError renders err as {"detail": ...}. Server-side failures are logged
// and their text is not sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && log != nil {
		obs.WithTrace(r.Context(), log).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, ErrorBody{Detail: DetailFor(err)})
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, auth.ErrEmailAlreadyRegistered),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrInvalidAccessToken),
		errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReadOnly):
		return http.StatusMethodNotAllowed
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DetailFor is the client-facing message for err.
func DetailFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidAccessToken):
		return auth.ErrInvalidAccessToken.Error()
	case StatusFor(err) >= http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

// PathInt64 parses a positive integer route variable.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Detail(domain.ErrInvalidInput, fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// QueryInt reads an integer query parameter, returning def when absent.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Detail(domain.ErrInvalidInput, fmt.Sprintf("invalid %s", name))
	}
	return v, nil
}
