package orgunit

import (
	"context"
	"net/http"

	"github.com/stayfix/stayfix/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID string) ([]*OrgUnit, error)
	Tree(ctx context.Context, userID string) ([]*TreeNode, error)
	Create(ctx context.Context, userID string, input CreateOrgUnitInput) (*OrgUnit, error)
	Update(ctx context.Context, userID string, input UpdateOrgUnitInput) (*OrgUnit, error)
	Delete(ctx context.Context, userID, id string) error
	Reorder(ctx context.Context, userID string, orderedIDs []string) error
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

	units, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.Logger.Error("List: failed to list org units", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UnitsResponse{Units: units})
}

func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	tree, err := h.Service.Tree(r.Context(), userID)
	if err != nil {
		h.Logger.Error("Tree: failed to build org tree", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TreeResponse{Tree: tree})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input CreateOrgUnitInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	unit, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Create: failed to create org unit", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, unit)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input UpdateOrgUnitInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	unit, err := h.Service.Update(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("Update: failed to update org unit", "error", err, "id", input.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, unit)
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
		h.Logger.Error("Delete: failed to delete org unit", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input ReorderInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, ErrReorderEmpty)
		return
	}

	if err := h.Service.Reorder(r.Context(), userID, input.OrderedIDs); err != nil {
		h.Logger.Error("Reorder: failed to reorder org units", "error", err, "count", len(input.OrderedIDs))
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
