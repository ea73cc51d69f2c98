package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/bossrus/workflow-go/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Kind() string
	List() map[string]readmodel.CatalogEntry
	GetByID(id string) (readmodel.CatalogEntry, error)
	Upsert(dto UpsertDTO, actorID string) (readmodel.CatalogEntry, error)
	Delete(id, actorID string) error
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

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.List())
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var dto UpsertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.Upsert(dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.Logger.Error("catalog upsert failed", "kind", h.Service.Kind(), "error", err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id"), internal.UserIDFromContext(r.Context())); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
