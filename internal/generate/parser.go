package generate

import (
	"regexp"
	"strings"
)

// Sections is the fixed-shape result of parsing one generation.
// Absent sections are empty, never an error.
type Sections struct {
	Blog               string
	Tweets             []string
	LinkedIn           string
	ShowNotes          string
	KeyTakeaways       string
	Quotes             string
	Newsletter         string
	Instagram          string
	YouTubeDescription string
	SEOKeywords        string
	EmailSubject       string
	TwitterThread      string
	Headlines          string
}

// sectionPatterns holds one non-greedy matcher per tag. Each tag is matched
// against the whole text on its own, so sections may appear in any order.
var sectionPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(deliverables))
	for _, tag := range Tags() {
		d := regexp.QuoteMeta(Delimiter(tag))
		m[tag] = regexp.MustCompile(d + `\s*([\s\S]*?)\s*` + d)
	}
	return m
}()

// tweetLine requires whitespace after the numeral, so "1.Great" and
// "3.5x faster" are not tweets.
var tweetLine = regexp.MustCompile(`^\d+\.\s+(.+)$`)

// ExtractSection returns the trimmed content of the first complete
// ---TAG--- ... ---TAG--- pair, or "" when no complete pair exists yet.
func ExtractSection(text, tag string) string {
	re, ok := sectionPatterns[tag]
	if !ok {
		d := regexp.QuoteMeta(Delimiter(tag))
		re = regexp.MustCompile(d + `\s*([\s\S]*?)\s*` + d)
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParseTweets splits the TWITTER block into tweets. Only lines numbered
// "N. text" count; the numeral is dropped and source order is kept.
func ParseTweets(text string) []string {
	block := ExtractSection(text, TagTwitter)
	if block == "" {
		return []string{}
	}

	tweets := []string{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		m := tweetLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if tweet := strings.TrimSpace(m[1]); tweet != "" {
			tweets = append(tweets, tweet)
		}
	}
	return tweets
}

// Parse extracts every section from the accumulated text. It is safe to
// call repeatedly while the stream is still arriving.
func Parse(text string) Sections {
	return Sections{
		Blog:               ExtractSection(text, TagBlog),
		Tweets:             ParseTweets(text),
		LinkedIn:           ExtractSection(text, TagLinkedIn),
		ShowNotes:          ExtractSection(text, TagShowNotes),
		KeyTakeaways:       ExtractSection(text, TagKeyTakeaways),
		Quotes:             ExtractSection(text, TagQuotes),
		Newsletter:         ExtractSection(text, TagNewsletter),
		Instagram:          ExtractSection(text, TagInstagram),
		YouTubeDescription: ExtractSection(text, TagYouTubeDescription),
		SEOKeywords:        ExtractSection(text, TagSEOKeywords),
		EmailSubject:       ExtractSection(text, TagEmailSubject),
		TwitterThread:      ExtractSection(text, TagTwitterThread),
		Headlines:          ExtractSection(text, TagHeadlines),
	}
}
