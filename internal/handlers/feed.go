package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/feed"
)

const feedItemLimit = 100

func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	uuid := mux.Vars(r)["uuid"]

	user, err := h.store.GetUserByRSSUUID(r.Context(), uuid)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Error loading feed owner")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	entries, err := h.store.ListFeedEntries(r.Context(), user.ID, feedItemLimit)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("Error getting feed entries")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(user, entries, feed.BaseURL(h.opts.BaseURL, r))
	if err != nil {
		h.log.Error().Err(err).Msg("Error generating RSS")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	_, _ = w.Write([]byte(rss))
}
