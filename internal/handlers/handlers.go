package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/middleware"
	"podcast-repurposer/internal/models"
	"podcast-repurposer/internal/pipeline"
	"podcast-repurposer/internal/storage"
)

// Store is the datastore surface used by the HTTP handlers.
type Store interface {
	CreatePodcast(ctx context.Context, userID, fileURL, title string) (*models.Podcast, error)
	GetPodcastForOwner(ctx context.Context, id, userID string) (*models.Podcast, error)
	ListContentOutputs(ctx context.Context, podcastID string) ([]models.ContentOutput, error)
	GetContentOutputOwner(ctx context.Context, id string) (string, error)
	UpdateContentOutput(ctx context.Context, id, content string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByRSSUUID(ctx context.Context, rssUUID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, u db.ProfileUpdate) error
	ListNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]models.Notification, error)
	SetNotificationRead(ctx context.Context, userID, id string, read bool) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	ListFeedEntries(ctx context.Context, userID string, limit int) ([]db.FeedEntry, error)
	AddNewsletterSubscriber(ctx context.Context, email string) error
	HealthCheck(ctx context.Context) error
}

// Options are the deployment settings the handlers need.
type Options struct {
	// StorageURL is the Supabase project URL that public object URLs hang off.
	StorageURL string
	Bucket     string
	// BaseURL is this service's public URL, used for feed links.
	BaseURL string
}

type Handlers struct {
	store     Store
	processor *pipeline.Orchestrator
	opts      Options
	log       zerolog.Logger
}

func New(store Store, processor *pipeline.Orchestrator, opts Options, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:     store,
		processor: processor,
		opts:      opts,
		log:       log.With().Str("component", "handlers").Logger(),
	}
}

func (h *Handlers) publicURL(objectPath string) string {
	return storage.PublicURL(h.opts.StorageURL, h.opts.Bucket, objectPath)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Health check failed")
		writeError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return user, ok
}

// decodeJSON reads a JSON body. An empty body decodes to the zero value.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
