package hospital

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/domain/hospital"
	"github.com/NordCoder/Carelink/internal/httpx"
)

type Handler struct {
	uc  *Usecase
	log *zap.Logger
}

func NewHandler(uc *Usecase, log *zap.Logger) *Handler {
	return &Handler{uc: uc, log: log}
}

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Mount registers the public directory routes. Write methods answer 405.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/hospitals", h.list).Methods(http.MethodGet)
	r.HandleFunc("/hospitals/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/hospitals", h.readOnly).Methods(writeMethods...)
	r.HandleFunc("/hospitals/{id}", h.readOnly).Methods(writeMethods...)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.QueryInt(r, "page", 1)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	size, err := httpx.QueryInt(r, "size", hospital.DefaultPageSize)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	res, err := h.uc.List(r.Context(), hospital.Query{Q: r.URL.Query().Get("q"), Page: page, Size: size})
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	res, err := h.uc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) readOnly(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	httpx.WriteError(w, r, h.log, hospital.ErrReadOnly)
}
