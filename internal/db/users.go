package db

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"podcast-repurposer/internal/models"
)

const userColumns = `id, email, full_name, phone, plan, tokens_remaining, telegram_id, rss_uuid, created_at, updated_at`

// UpsertUser inserts a profile for an identity-provider user or refreshes its email.
func (s *Store) UpsertUser(ctx context.Context, id string, email string) (*models.User, error) {
	query := `
		INSERT INTO profiles (id, email)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, profiles.email),
			updated_at = NOW()
		RETURNING ` + userColumns
	user := &models.User{}
	if err := s.db.GetContext(ctx, user, query, id, email); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("Error upserting user")
		return nil, err
	}
	return user, nil
}

// UpsertTelegramUser inserts or refreshes the profile bound to a Telegram account.
func (s *Store) UpsertTelegramUser(ctx context.Context, telegramID int64, fullName string) (*models.User, error) {
	query := `
		INSERT INTO profiles (id, telegram_id, full_name)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (telegram_id) DO UPDATE SET
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			updated_at = NOW()
		RETURNING ` + userColumns
	user := &models.User{}
	if err := s.db.GetContext(ctx, user, query, uuid.NewString(), telegramID, fullName); err != nil {
		s.log.Error().Err(err).Int64("telegram_id", telegramID).Msg("Error upserting telegram user")
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *Store) GetUserByRSSUUID(ctx context.Context, rssUUID string) (*models.User, error) {
	if !isUUID(rssUUID) {
		return nil, ErrNotFound
	}
	user := &models.User{}
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM profiles WHERE rss_uuid = $1`, rssUUID)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// GetTokenBalance reads the caller's remaining generation credits.
func (s *Store) GetTokenBalance(ctx context.Context, userID string) (int, error) {
	var tokens int
	err := s.db.GetContext(ctx, &tokens, `SELECT tokens_remaining FROM profiles WHERE id = $1`, userID)
	if err != nil {
		return 0, notFound(err)
	}
	return tokens, nil
}

// ProfileUpdate carries the editable profile fields. A nil FullName clears
// the name. Phone is only touched when PhoneSet is true; blank clears it.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	PhoneSet bool
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) error {
	var phone *string
	if u.Phone != nil {
		if p := strings.TrimSpace(*u.Phone); p != "" {
			phone = &p
		}
	}

	query := `
		UPDATE profiles
		SET full_name = $1,
			phone = CASE WHEN $2 THEN $3 ELSE phone END,
			updated_at = NOW()
		WHERE id = $4`
	res, err := s.db.ExecContext(ctx, query, u.FullName, u.PhoneSet, phone, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Error updating profile")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
