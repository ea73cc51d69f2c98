package worklog

import (
	"net/http"

	worklogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/worklog"
	"github.com/bossrus/workflow-go/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByWorkflow(workflowID string) ([]*worklogDatamodel.Record, error)
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

func (h *Handler) GetByWorkflow(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.GetByWorkflow(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, records)
}
