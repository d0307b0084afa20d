package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes {"error": message}.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeErrorBody(w, status, internal.Response{Error: message})
}

func (h *BaseHandler) writeErrorBody(w http.ResponseWriter, status int, body internal.Response) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "message", body.Error)
	} else {
		h.Logger.Warn("http error", "status", status, "message", body.Error)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError maps an *internal.AppError to its status; anything else is a 500
// carrying the underlying message.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.writeErrorBody(w, status, body)
		return
	}
	h.writeErrorBody(w, http.StatusInternalServerError, internal.Response{Error: err.Error(), Code: "INTERNAL_ERROR"})
}

// DecodeJSON decodes the request body into dst. An empty body decodes as {}.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return internal.ErrInvalidBody
	}
	return nil
}

// RequireUser returns the authenticated user id or writes a 401.
func (h *BaseHandler) RequireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, internal.ErrUnauthenticated)
		return "", false
	}
	return userID, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

// IDFromRequest reads the id from ?id= or, failing that, from a JSON body {"id": "..."}.
func (h *BaseHandler) IDFromRequest(r *http.Request) (string, error) {
	if id := r.URL.Query().Get("id"); id != "" {
		return id, nil
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := h.DecodeJSON(r, &body); err != nil || body.ID == "" {
		return "", internal.ErrIDRequired
	}
	return body.ID, nil
}
