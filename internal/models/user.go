package models

import "time"

// User is the caller's profile row. Identity lives with the external
// provider; the profile carries plan and usage balance.
type User struct {
	ID              string    `db:"id" json:"id"`
	Email           *string   `db:"email" json:"email,omitempty"`
	FullName        *string   `db:"full_name" json:"full_name,omitempty"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	Plan            string    `db:"plan" json:"plan"`
	TokensRemaining int       `db:"tokens_remaining" json:"tokens_remaining"`
	TelegramID      *int64    `db:"telegram_id" json:"-"`
	RSSUUID         string    `db:"rss_uuid" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
