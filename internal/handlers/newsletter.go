package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"podcast-repurposer/internal/db"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type subscribeRequest struct {
	Email string `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Subscribe adds an email to the newsletter list. Subscribing twice is not
// an error.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	err := h.store.AddNewsletterSubscriber(r.Context(), email)
	switch {
	case errors.Is(err, db.ErrAlreadySubscribed):
		writeJSON(w, http.StatusOK, messageResponse{Message: "Already subscribed"})
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Server error")
	default:
		writeJSON(w, http.StatusOK, messageResponse{Message: "Subscribed"})
	}
}
