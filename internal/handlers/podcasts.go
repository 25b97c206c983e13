package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/models"
)

const defaultPodcastTitle = "Untitled podcast"

type createPodcastRequest struct {
	FilePath string `json:"file_path"`
	Title    string `json:"title"`
}

type createPodcastResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePodcast registers an uploaded object for processing.
func (h *Handlers) CreatePodcast(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body createPodcastRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	filePath := strings.TrimSpace(body.FilePath)
	if filePath == "" {
		writeError(w, http.StatusBadRequest, "file_path is required")
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		title = defaultPodcastTitle
	}

	podcast, err := h.store.CreatePodcast(r.Context(), user.ID, h.publicURL(filePath), title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, createPodcastResponse{ID: podcast.ID, Status: podcast.Status, CreatedAt: podcast.CreatedAt})
}

type podcastResponse struct {
	*models.Podcast
	ContentOutputs []models.ContentOutput `json:"content_outputs"`
}

// GetPodcast returns a podcast with its generated content, so a caller can
// learn the outcome of a run whose stream was cut.
func (h *Handlers) GetPodcast(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	podcast, err := h.store.GetPodcastForOwner(r.Context(), id, user.ID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Podcast not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("podcast_id", id).Msg("Error loading podcast")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	outputs, err := h.store.ListContentOutputs(r.Context(), podcast.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if outputs == nil {
		outputs = []models.ContentOutput{}
	}

	writeJSON(w, http.StatusOK, podcastResponse{Podcast: podcast, ContentOutputs: outputs})
}
