package autocall

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

type triggerRequest struct {
	HospitalIDs []int64 `json:"hospital_ids"`
}

// Mount registers the trigger route. r must sit behind auth.RequireBearer.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/auto-call/trigger", h.trigger).Methods(http.MethodPost)
}

func (h *Handler) trigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	id, _ := auth.IdentityFromCtx(r.Context())
	res, err := h.uc.Trigger(r.Context(), id.UserID, req.HospitalIDs)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
