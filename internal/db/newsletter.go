package db

import (
	"context"
	"errors"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = errors.New("already subscribed")

func (s *Store) AddNewsletterSubscriber(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO newsletter_subscribers (email) VALUES ($1)`, email)
	if hasPGCode(err, pgUniqueViolation) {
		return ErrAlreadySubscribed
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Error adding newsletter subscriber")
		return err
	}
	return nil
}
