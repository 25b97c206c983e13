package db

import (
	"context"

	"podcast-repurposer/internal/models"
)

// CreateNotification returns ErrNotFound when the user does not exist.
func (s *Store) CreateNotification(ctx context.Context, userID, title, message string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message) VALUES ($1, $2, $3)`,
		userID, title, message)
	if hasPGCode(err, pgForeignKeyViolation) {
		return ErrNotFound
	}
	return err
}

// ListNotifications returns the newest notifications for a user.
func (s *Store) ListNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3`
	notifications := []models.Notification{}
	if err := s.db.SelectContext(ctx, &notifications, query, userID, unreadOnly, limit); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Error listing notifications")
		return nil, err
	}
	return notifications, nil
}

// SetNotificationRead updates one notification. Unknown ids are a no-op.
func (s *Store) SetNotificationRead(ctx context.Context, userID, id string, read bool) error {
	if !isUUID(id) {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = $1 WHERE id = $2 AND user_id = $3`,
		read, id, userID)
	return err
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID)
	return err
}
