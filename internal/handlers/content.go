package handlers

import (
	"errors"
	"net/http"

	"podcast-repurposer/internal/db"
)

type updateContentRequest struct {
	ID      string  `json:"id"`
	Content *string `json:"content"`
}

// UpdateContentOutput replaces the text of one generated artifact owned by
// the caller.
func (h *Handlers) UpdateContentOutput(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body updateContentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	owner, err := h.store.GetContentOutputOwner(r.Context(), body.ID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Content not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("content_output_id", body.ID).Msg("Error loading content output")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if owner != user.ID {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	content := ""
	if body.Content != nil {
		content = *body.Content
	}
	if err := h.store.UpdateContentOutput(r.Context(), body.ID, content); err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeOK(w)
}
