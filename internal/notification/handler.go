package notification

import (
	"context"
	"net/http"

	"github.com/stayfix/stayfix/internal/transport"
)

type ServiceAPI interface {
	ListRules(ctx context.Context, userID string) (*RuleSet, error)
	GroupedRules(ctx context.Context, userID string) ([]*RuleView, error)
	SaveRule(ctx context.Context, userID string, input SaveRuleInput) (string, bool, error)
	DeleteRule(ctx context.Context, userID, id string) error
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

func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	set, err := h.Service.ListRules(r.Context(), userID)
	if err != nil {
		h.Logger.Error("ListRules: failed to load rules", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, set)
}

func (h *Handler) GroupedRules(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	views, err := h.Service.GroupedRules(r.Context(), userID)
	if err != nil {
		h.Logger.Error("GroupedRules: failed to load rules", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, GroupedRulesResponse{Rules: views})
}

func (h *Handler) SaveRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var input SaveRuleInput
	if err := h.DecodeJSON(r, &input); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	id, created, err := h.Service.SaveRule(r.Context(), userID, input)
	if err != nil {
		h.Logger.Error("SaveRule: failed to save rule", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, SaveRuleResponse{Success: true, ID: id})
}

func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := h.IDFromRequest(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteRule(r.Context(), userID, id); err != nil {
		h.Logger.Error("DeleteRule: failed to delete rule", "error", err, "rule_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
