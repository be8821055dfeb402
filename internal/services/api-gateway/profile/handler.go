package profile

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain/person"
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

// Mount registers /me/profile. r must sit behind auth.RequireBearer.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/me/profile", h.get).Methods(http.MethodGet)
	r.HandleFunc("/me/profile", h.put).Methods(http.MethodPut)
	r.HandleFunc("/me/profile", h.patch).Methods(http.MethodPatch)
	r.HandleFunc("/me/profile", h.delete).Methods(http.MethodDelete)
}

func caller(r *http.Request) int64 {
	id, _ := auth.IdentityFromCtx(r.Context())
	return id.UserID
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.Get(r.Context(), caller(r))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	var d person.Details
	if err := httpx.DecodeJSON(w, r, &d); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	p, _, err := h.uc.Put(r.Context(), caller(r), d)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	var d person.Details
	if err := httpx.DecodeJSON(w, r, &d); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	p, err := h.uc.Patch(r.Context(), caller(r), d)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), caller(r)); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}
