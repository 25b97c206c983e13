package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Content output types.
const (
	TypeTranscript         = "transcript"
	TypeBlog               = "blog"
	TypeTweet              = "tweet"
	TypeLinkedIn           = "linkedin"
	TypeShowNotes          = "show_notes"
	TypeKeyTakeaways       = "key_takeaways"
	TypeQuotes             = "quotes"
	TypeNewsletter         = "newsletter"
	TypeInstagram          = "instagram"
	TypeYouTubeDescription = "youtube_description"
	TypeSEOKeywords        = "seo_keywords"
	TypeEmailSubject       = "email_subject"
	TypeTwitterThread      = "twitter_thread"
	TypeHeadlines          = "headlines"
)

// ContentOutput is one generated artifact tied to a podcast.
type ContentOutput struct {
	ID        string    `db:"id" json:"id"`
	PodcastID string    `db:"podcast_id" json:"podcast_id"`
	Type      string    `db:"type" json:"type"`
	Content   string    `db:"content" json:"content"`
	Metadata  Metadata  `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Metadata is free-form jsonb attached to a content output.
type Metadata map[string]any

// Value encodes the metadata as JSON text; nil becomes an empty object.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	out := Metadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}
