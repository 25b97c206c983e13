package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"podcast-repurposer/internal/models"
)

// TelegramVerifier validates Telegram Mini App init data signed with the bot token.
type TelegramVerifier struct {
	botToken string
	maxAge   time.Duration
	users    UserStore
}

// NewTelegramVerifier builds a verifier. A zero maxAge accepts init data of any age.
func NewTelegramVerifier(botToken string, maxAge time.Duration, users UserStore) *TelegramVerifier {
	return &TelegramVerifier{botToken: botToken, maxAge: maxAge, users: users}
}

func (v *TelegramVerifier) Verify(ctx context.Context, raw string) (*models.User, error) {
	if v.botToken == "" {
		return nil, ErrMissingConfig
	}

	if err := initdata.Validate(raw, v.botToken, v.maxAge); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	data, err := initdata.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if data.User.ID == 0 {
		return nil, fmt.Errorf("%w: init data has no user", ErrInvalidCredentials)
	}

	user, err := v.users.UpsertTelegramUser(ctx, data.User.ID, displayName(data.User))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert telegram user: %w", err)
	}
	return user, nil
}

func displayName(u initdata.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
