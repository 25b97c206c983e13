package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eduncan911/podcast"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/models"
)

const fallbackDescription = "Show notes are not available for this episode."

// BaseURL prefers the configured public URL and falls back to the request.
func BaseURL(configured string, r *http.Request) string {
	if configured != "" {
		return strings.TrimSuffix(configured, "/")
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders a user's completed podcasts, with their show notes as
// item descriptions.
func GenerateRSS(user *models.User, entries []db.FeedEntry, baseURL string) (string, error) {
	title := "My Podcast"
	if user.FullName != nil && *user.FullName != "" {
		title = fmt.Sprintf("%s's Podcast", *user.FullName)
	}

	updated := time.Now()
	if len(entries) > 0 {
		updated = entries[0].CreatedAt
	}

	p := podcast.New(
		title,
		fmt.Sprintf("%s/rss/%s", baseURL, user.RSSUUID),
		"Show notes generated from your podcast episodes.",
		&updated, &updated,
	)

	for _, entry := range entries {
		description := strings.TrimSpace(entry.ShowNotes)
		if description == "" {
			description = fallbackDescription
		}
		pubDate := entry.CreatedAt
		item := podcast.Item{
			Title:       entry.Title,
			Description: description,
			Link:        fmt.Sprintf("%s/podcasts/%s", baseURL, entry.ID),
			PubDate:     &pubDate,
		}
		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("failed to add feed item %s: %w", entry.ID, err)
		}
	}

	return p.String(), nil
}
