package models

import "time"

// Podcast is one uploaded audio asset and its processing lifecycle.
type Podcast struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	FileURL   string    `db:"file_url" json:"file_url"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
