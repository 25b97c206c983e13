package handlers

import (
	"net/http"
	"strconv"

	"podcast-repurposer/internal/models"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 50
)

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultNotificationLimit
	}
	limit = min(limit, maxNotificationLimit)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.store.ListNotifications(r.Context(), user.ID, limit, unreadOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}

type updateNotificationsRequest struct {
	ID   string `json:"id"`
	Read *bool  `json:"read"`
}

// UpdateNotifications marks one notification ({id, read}) or all of them
// ({read: true}).
func (h *Handlers) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body updateNotificationsRequest
	if err := decodeJSON(r, &body); err != nil {
		body = updateNotificationsRequest{}
	}

	switch {
	case body.ID != "":
		read := body.Read != nil && *body.Read
		if err := h.store.SetNotificationRead(r.Context(), user.ID, body.ID, read); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	case body.Read != nil && *body.Read:
		if err := h.store.MarkAllNotificationsRead(r.Context(), user.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "Provide id or read: true")
		return
	}

	writeOK(w)
}
