package family

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain/family"
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

// Mount registers /me/family routes. r must sit behind auth.RequireBearer.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/me/family", h.list).Methods(http.MethodGet)
	r.HandleFunc("/me/family", h.create).Methods(http.MethodPost)
	r.HandleFunc("/me/family/{id}", h.patch).Methods(http.MethodPatch)
	r.HandleFunc("/me/family/{id}", h.delete).Methods(http.MethodDelete)
}

func caller(r *http.Request) int64 {
	id, _ := auth.IdentityFromCtx(r.Context())
	return id.UserID
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context(), caller(r))
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req family.Patch
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	var rel string
	if req.Relationship != nil {
		rel = *req.Relationship
	}
	m, err := h.uc.Create(r.Context(), caller(r), rel, req.Details)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	var req family.Patch
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	m, err := h.uc.Patch(r.Context(), caller(r), id, req)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	if err := h.uc.Delete(r.Context(), caller(r), id); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}
