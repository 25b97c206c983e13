package auth

import (
	"context"
	"fmt"

	gotrue "github.com/supabase-community/gotrue-go"

	"podcast-repurposer/internal/models"
)

// SupabaseVerifier checks bearer access tokens against Supabase Auth.
type SupabaseVerifier struct {
	client gotrue.Client
	users  UserStore
}

func NewSupabaseVerifier(client gotrue.Client, users UserStore) *SupabaseVerifier {
	return &SupabaseVerifier{client: client, users: users}
}

func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	resp, err := v.client.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user, err := v.users.UpsertUser(ctx, resp.ID.String(), resp.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return user, nil
}
