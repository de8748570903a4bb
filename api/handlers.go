package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/notifyd/pkg/notification"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Handler carries the notification dispatcher and serves the HTTP routes.
type Handler struct {
	dispatcher *notification.Dispatcher
	logger     *slog.Logger
}

// NewHandler wires the dispatcher into an HTTP handler set. A nil logger
// falls back to slog.Default.
func NewHandler(d *notification.Dispatcher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{dispatcher: d, logger: log}
}

// Create accepts a notification event and routes it. Responds 201 on
// success with the accepted user id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := req.toEvent()
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]string{"user_id": event.UserID})
}

// Read marks one notification as read. Parameters arrive as query strings;
// marking an already-read notification again succeeds without effect.
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	notificationID := r.URL.Query().Get("notification_id")

	verr := ValidationError{}
	if !validObjectID(userID) {
		verr.Add("user_id", "must be a 24-character hex identifier")
	}
	if !validObjectID(notificationID) {
		verr.Add("notification_id", "must be a 24-character hex identifier")
	}
	if len(verr) > 0 {
		h.respondError(w, r, verr)
		return
	}

	if err := h.dispatcher.MarkRead(r.Context(), userID, notificationID); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"notification_id": notificationID})
}

// List returns a page of the user's notifications, most recent first. A page
// past the end of the log is an empty array, not an error.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")

	verr := ValidationError{}
	if !validObjectID(userID) {
		verr.Add("user_id", "must be a 24-character hex identifier")
	}

	skip := 0
	if raw := q.Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			verr.Add("skip", "must be a non-negative integer")
		} else {
			skip = v
		}
	}

	limit := notification.DefaultRetentionCap
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			verr.Add("limit", "must be a positive integer")
		} else {
			limit = v
		}
	}

	if len(verr) > 0 {
		h.respondError(w, r, verr)
		return
	}

	items, err := h.dispatcher.List(r.Context(), userID, skip, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if items == nil {
		items = []notification.Notification{}
	}

	writeSuccess(w, http.StatusOK, items)
}

// decodeJSON reads a JSON request body into dst. Unknown fields are
// tolerated; an absent or non-JSON content type, an oversized body, and
// malformed JSON are all rejected.
func decodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errors.New("expected application/json content type")
		}
	}

	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("malformed JSON body")
	}
	return nil
}
