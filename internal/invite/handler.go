package invite

import (
	"encoding/json"
	"net/http"

	"github.com/bossrus/workflow-go/internal"
	inviteDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/invite"
	"github.com/bossrus/workflow-go/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto CreateDTO, callerID string) (*inviteDatamodel.Invite, error)
	ListForRecipient(callerID string) (map[string]*inviteDatamodel.Invite, error)
	Delete(id, callerID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.Create(dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListForRecipient(internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id"), internal.UserIDFromContext(r.Context())); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
