package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/notifyd/pkg/logger"
	"github.com/dmitrymomot/notifyd/pkg/notification"
)

// respondError maps a domain error to an HTTP status and the response
// envelope. Anything unrecognized is a 500 with a generic message; the
// underlying error goes to the log, never to the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, notification.ErrUnknownKind),
		errors.Is(err, notification.ErrMissingTargetEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, notification.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, "Notification not found")
	default:
		h.logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
