package notificationprofile

import (
	"context"
	"net/http"

	"github.com/stayfix/stayfix/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID string) ([]*Profile, error)
	Create(ctx context.Context, userID string, input CreateProfileInput) (*Profile, error)
	Update(ctx context.Context, userID string, input UpdateProfileInput) (*Profile, error)
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

	profiles, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.Logger.Error("List: failed to list notification profiles", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ProfilesResponse{Profiles: profiles})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input CreateProfileInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	profile, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Create: failed to create notification profile", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, profile)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	profile, err := h.Service.Update(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Update: failed to update notification profile", "error", err, "id", input.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
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
		h.Logger.Error("Delete: failed to delete notification profile", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
