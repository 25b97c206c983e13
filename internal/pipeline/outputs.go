package pipeline

import (
	"podcast-repurposer/internal/generate"
	"podcast-repurposer/internal/models"
)

// Outputs lays out the rows persisted for one run: the transcript, every
// section (empty ones included) and one row per tweet carrying its 1-based
// index.
func Outputs(transcript string, s generate.Sections) []models.ContentOutput {
	out := make([]models.ContentOutput, 0, 14+len(s.Tweets))
	add := func(typ, content string) {
		out = append(out, models.ContentOutput{Type: typ, Content: content})
	}

	add(models.TypeTranscript, transcript)
	add(models.TypeBlog, s.Blog)
	for i, tweet := range s.Tweets {
		out = append(out, models.ContentOutput{
			Type:     models.TypeTweet,
			Content:  tweet,
			Metadata: models.Metadata{"index": i + 1},
		})
	}
	add(models.TypeLinkedIn, s.LinkedIn)
	add(models.TypeShowNotes, s.ShowNotes)
	add(models.TypeKeyTakeaways, s.KeyTakeaways)
	add(models.TypeQuotes, s.Quotes)
	add(models.TypeNewsletter, s.Newsletter)
	add(models.TypeInstagram, s.Instagram)
	add(models.TypeYouTubeDescription, s.YouTubeDescription)
	add(models.TypeSEOKeywords, s.SEOKeywords)
	add(models.TypeEmailSubject, s.EmailSubject)
	add(models.TypeTwitterThread, s.TwitterThread)
	add(models.TypeHeadlines, s.Headlines)

	return out
}
