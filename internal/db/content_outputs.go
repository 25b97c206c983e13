package db

import (
	"context"
	"fmt"

	"podcast-repurposer/internal/models"
)

// Generation is the outcome of one successful run, persisted as a unit.
type Generation struct {
	UserID    string
	PodcastID string
	Outputs   []models.ContentOutput
	// Credits is subtracted from the owner's balance, floored at zero.
	Credits int
}

// SaveGeneration replaces the podcast's content outputs, marks it completed
// and debits the owner in a single transaction, so readers never observe a
// mix of two generations and a failed save never consumes balance.
func (s *Store) SaveGeneration(ctx context.Context, g Generation) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error().Err(rbErr).Str("podcast_id", g.PodcastID).Msg("Error rolling back generation")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM content_outputs WHERE podcast_id = $1`, g.PodcastID); err != nil {
		return fmt.Errorf("failed to delete content outputs: %w", err)
	}

	for _, out := range g.Outputs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO content_outputs (podcast_id, type, content, metadata) VALUES ($1, $2, $3, $4)`,
			g.PodcastID, out.Type, out.Content, out.Metadata)
		if err != nil {
			return fmt.Errorf("failed to insert %s output: %w", out.Type, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE podcasts SET status = $1 WHERE id = $2 AND user_id = $3`,
		StatusCompleted, g.PodcastID, g.UserID)
	if err != nil {
		return fmt.Errorf("failed to update podcast status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return fmt.Errorf("failed to update podcast status: %w", err)
	}

	if g.Credits > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE profiles SET tokens_remaining = GREATEST(tokens_remaining - $1, 0), updated_at = NOW() WHERE id = $2`,
			g.Credits, g.UserID)
		if err != nil {
			return fmt.Errorf("failed to decrement balance: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generation: %w", err)
	}
	return nil
}

// ListContentOutputs returns a podcast's outputs with the transcript first,
// then blog, then tweets in index order.
func (s *Store) ListContentOutputs(ctx context.Context, podcastID string) ([]models.ContentOutput, error) {
	query := `
		SELECT id, podcast_id, type, content, metadata, created_at
		FROM content_outputs
		WHERE podcast_id = $1
		ORDER BY
			CASE type WHEN 'transcript' THEN 0 WHEN 'blog' THEN 1 WHEN 'tweet' THEN 2 ELSE 3 END,
			COALESCE((metadata->>'index')::int, 0),
			type`
	var outputs []models.ContentOutput
	if err := s.db.SelectContext(ctx, &outputs, query, podcastID); err != nil {
		s.log.Error().Err(err).Str("podcast_id", podcastID).Msg("Error listing content outputs")
		return nil, err
	}
	return outputs, nil
}

// GetContentOutputOwner returns the user owning the podcast a content output belongs to.
func (s *Store) GetContentOutputOwner(ctx context.Context, id string) (string, error) {
	if !isUUID(id) {
		return "", ErrNotFound
	}
	var owner string
	query := `
		SELECT p.user_id
		FROM content_outputs co
		JOIN podcasts p ON p.id = co.podcast_id
		WHERE co.id = $1`
	if err := s.db.GetContext(ctx, &owner, query, id); err != nil {
		return "", notFound(err)
	}
	return owner, nil
}

func (s *Store) UpdateContentOutput(ctx context.Context, id, content string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE content_outputs SET content = $1 WHERE id = $2`, content, id)
	if err != nil {
		s.log.Error().Err(err).Str("content_output_id", id).Msg("Error updating content output")
	}
	return err
}
