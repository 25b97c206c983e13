package db

import (
	"context"
	"time"

	"podcast-repurposer/internal/models"
)

const podcastColumns = `id, user_id, title, file_url, status, created_at`

// CreatePodcast registers an uploaded file in the processing state.
func (s *Store) CreatePodcast(ctx context.Context, userID, fileURL, title string) (*models.Podcast, error) {
	query := `
		INSERT INTO podcasts (user_id, file_url, title, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + podcastColumns
	podcast := &models.Podcast{}
	if err := s.db.GetContext(ctx, podcast, query, userID, fileURL, title, StatusProcessing); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Error creating podcast")
		return nil, err
	}
	return podcast, nil
}

// GetPodcastForOwner loads a podcast scoped to its owner.
func (s *Store) GetPodcastForOwner(ctx context.Context, id, userID string) (*models.Podcast, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	podcast := &models.Podcast{}
	query := `SELECT ` + podcastColumns + ` FROM podcasts WHERE id = $1 AND user_id = $2`
	if err := s.db.GetContext(ctx, podcast, query, id, userID); err != nil {
		return nil, notFound(err)
	}
	return podcast, nil
}

func (s *Store) UpdatePodcastStatus(ctx context.Context, id, userID, status string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE podcasts SET status = $1 WHERE id = $2 AND user_id = $3`, status, id, userID)
	return err
}

// FeedEntry is a completed podcast with its show notes.
type FeedEntry struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	ShowNotes string    `db:"show_notes"`
	CreatedAt time.Time `db:"created_at"`
}

// ListFeedEntries returns the owner's completed podcasts, newest first.
func (s *Store) ListFeedEntries(ctx context.Context, userID string, limit int) ([]FeedEntry, error) {
	query := `
		SELECT p.id, p.title, p.created_at, COALESCE(co.content, '') AS show_notes
		FROM podcasts p
		LEFT JOIN content_outputs co ON co.podcast_id = p.id AND co.type = 'show_notes'
		WHERE p.user_id = $1 AND p.status = 'completed'
		ORDER BY p.created_at DESC
		LIMIT $2`
	var entries []FeedEntry
	if err := s.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Error listing feed entries")
		return nil, err
	}
	return entries, nil
}
