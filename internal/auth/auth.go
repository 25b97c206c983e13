package auth

import (
	"context"
	"errors"

	"podcast-repurposer/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingConfig      = errors.New("verifier not configured")
)

// Verifier turns the credential part of an Authorization header into a
// profile, creating the profile on first sight.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*models.User, error)
}

// UserStore is the datastore surface the verifiers need.
type UserStore interface {
	UpsertUser(ctx context.Context, id string, email string) (*models.User, error)
	UpsertTelegramUser(ctx context.Context, telegramID int64, fullName string) (*models.User, error)
}
