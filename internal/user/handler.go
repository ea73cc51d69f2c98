package user

import (
	"encoding/json"
	"net/http"

	"github.com/bossrus/workflow-go/internal"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/bossrus/workflow-go/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListFull() map[string]readmodel.User
	ListShort() []readmodel.UserShort
	GetForCaller(id, callerID string) (interface{}, error)
	Create(dto CreateDTO, actorID string) (readmodel.User, error)
	Update(dto UpdateDTO, actorID, description string) (readmodel.User, error)
	Delete(id, actorID string) error
	Login(dto LoginDTO) (LoginResponse, error)
	VerifySessionAndFetch(id, token string) (readmodel.User, error)
	UpdateEmail(dto UpdateEmailDTO, callerID string) error
	ConfirmEmail(id, emailToken string) error
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "login", dto.Login, "error", err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Verify answers "who am I" for the session presented in the headers.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id, token := h.ExtractAuth(r)
	user, err := h.Service.VerifySessionAndFetch(id, token)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ListShort(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.ListShort())
}

func (h *Handler) ListFull(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.ListFull())
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.GetForCaller(chi.URLParam(r, "id"), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Create(dto, internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.Logger.Error("user create failed", "login", dto.Login, "error", err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Update(dto, internal.UserIDFromContext(r.Context()), "")
	if err != nil {
		h.Logger.Error("user update failed", "id", dto.ID, "error", err)
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id"), internal.UserIDFromContext(r.Context())); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var dto UpdateEmailDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateEmail(dto, internal.UserIDFromContext(r.Context())); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmEmail is the link target from the confirmation mail; it is the one
// unauthenticated user route besides login.
func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := chi.URLParam(r, "token")

	if err := h.Service.ConfirmEmail(id, token); err != nil {
		h.WriteServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]bool{"confirmed": true})
}
