package users

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/httpx"
	"github.com/NordCoder/Carelink/internal/services/api-gateway/auth"
)

type Handler struct {
	uc  *Usecase
	log *zap.Logger
}

func NewHandler(uc *Usecase, log *zap.Logger) *Handler {
	return &Handler{uc: uc, log: log}
}

// Mount registers the account routes. r must sit behind auth.RequireBearer.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/me", h.get(self)).Methods(http.MethodGet)
	r.HandleFunc("/me", h.patch(self)).Methods(http.MethodPatch)
	r.HandleFunc("/me", h.delete(self)).Methods(http.MethodDelete)
	r.HandleFunc("/users/{id}", h.get(byPath)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", h.patch(byPath)).Methods(http.MethodPatch)
	r.HandleFunc("/users/{id}", h.delete(byPath)).Methods(http.MethodDelete)
}

type target func(r *http.Request, caller int64) (int64, error)

func self(_ *http.Request, caller int64) (int64, error) { return caller, nil }

func byPath(r *http.Request, _ int64) (int64, error) { return httpx.PathInt64(r, "id") }

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, t target) (caller, id int64, ok bool) {
	ident, _ := auth.IdentityFromCtx(r.Context())
	id, err := t(r, ident.UserID)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return 0, 0, false
	}
	return ident.UserID, id, true
}

func (h *Handler) get(t target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, id, ok := h.resolve(w, r, t)
		if !ok {
			return
		}
		u, err := h.uc.Get(r.Context(), caller, id)
		if err != nil {
			httpx.WriteError(w, r, h.log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, u)
	}
}

func (h *Handler) patch(t target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, id, ok := h.resolve(w, r, t)
		if !ok {
			return
		}
		var body struct{}
		if err := httpx.DecodeJSON(w, r, &body); err != nil {
			httpx.WriteError(w, r, h.log, err)
			return
		}
		u, err := h.uc.Touch(r.Context(), caller, id)
		if err != nil {
			httpx.WriteError(w, r, h.log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, u)
	}
}

func (h *Handler) delete(t target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, id, ok := h.resolve(w, r, t)
		if !ok {
			return
		}
		if err := h.uc.Delete(r.Context(), caller, id); err != nil {
			httpx.WriteError(w, r, h.log, err)
			return
		}
		httpx.NoContent(w)
	}
}
