package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/stayfix/stayfix/internal/core/common/validation"
	"github.com/stayfix/stayfix/internal/transport"
)

type ServiceAPI interface {
	Stats(ctx context.Context, userID string, today time.Time) (*Stats, error)
	Today() time.Time
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

// Stats serves the dashboard numbers. An optional ?date=YYYY-MM-DD replaces today.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	today := h.Service.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, appErr := validation.ParseDate("date", &raw)
		if appErr != nil {
			h.HandleServiceError(w, appErr)
			return
		}
		today = *d
	}

	stats, err := h.Service.Stats(r.Context(), userID, today)
	if err != nil {
		h.Logger.Error("Stats: failed to build dashboard stats", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
