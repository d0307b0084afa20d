package residencetitle

import (
	"context"
	"net/http"

	"github.com/stayfix/stayfix/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID string) ([]*ResidenceTitle, error)
	Create(ctx context.Context, userID string, input CreateResidenceTitleInput) (*ResidenceTitle, error)
	Update(ctx context.Context, userID string, input UpdateResidenceTitleInput) (*ResidenceTitle, error)
	Delete(ctx context.Context, userID, id string) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	titles, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.Logger.Error("List: failed to list residence titles", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TitlesResponse{Titles: titles})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input CreateResidenceTitleInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	title, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Create: failed to create residence title", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, title)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input UpdateResidenceTitleInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	title, err := h.Service.Update(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Update: failed to update residence title", "error", err, "id", input.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, title)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := h.IDFromRequest(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		h.Logger.Error("Delete: failed to delete residence title", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
