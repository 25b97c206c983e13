package generate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"podcast-repurposer/internal/generate"
)

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name string
		text string
		tag  string
		want string
	}{
		{"no tags", "just some text", "BLOG", ""},
		{"complete pair", "---BLOG---\n# Ep 1\n...\n---BLOG---", "BLOG", "# Ep 1\n..."},
		{"surrounding noise", "preamble ---QUOTES---  a quote \n---QUOTES--- trailing", "QUOTES", "a quote"},
		{"first pair wins", "---BLOG---one---BLOG------BLOG---two---BLOG---", "BLOG", "one"},
		{"open only", "---BLOG---\n# Ep 1 still streaming", "BLOG", ""},
		{"cut mid delimiter", "---BLOG---\nbody\n---BL", "BLOG", ""},
		{"case exact", "---blog---x---blog---", "BLOG", ""},
		{"twitter does not match thread", "---TWITTER_THREAD---\n1. a\n---TWITTER_THREAD---", "TWITTER", ""},
		{"empty section", "---EMAIL_SUBJECT---\n\n---EMAIL_SUBJECT---", "EMAIL_SUBJECT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generate.ExtractSection(tt.text, tt.tag))
		})
	}
}

func TestExtractSectionIndependentOfOtherTags(t *testing.T) {
	// LINKEDIN opens inside BLOG's span but each tag is matched on its own.
	text := "---BLOG---\nblog ---LINKEDIN--- text\n---BLOG---\nlinked in\n---LINKEDIN---"

	assert.Equal(t, "blog ---LINKEDIN--- text", generate.ExtractSection(text, generate.TagBlog))
	assert.Equal(t, "text\n---BLOG---\nlinked in", generate.ExtractSection(text, generate.TagLinkedIn))
}

func TestParseTweets(t *testing.T) {
	t.Run("numbered lines", func(t *testing.T) {
		text := "---TWITTER---\n1. A\n2. B\n3. C\n---TWITTER---"
		assert.Equal(t, []string{"A", "B", "C"}, generate.ParseTweets(text))
	})

	t.Run("unnumbered line skipped", func(t *testing.T) {
		text := "---TWITTER---\n1. A\nHere are your tweets:\n2. B\n\n3. C\r\n---TWITTER---"
		assert.Equal(t, []string{"A", "B", "C"}, generate.ParseTweets(text))
	})

	t.Run("numeral must be followed by whitespace", func(t *testing.T) {
		text := "---TWITTER---\n1.Great\n2. Kept\n3.5x faster\n4.\tTabbed\n---TWITTER---"
		assert.Equal(t, []string{"Kept", "Tabbed"}, generate.ParseTweets(text))
	})

	t.Run("appearance order not numeral order", func(t *testing.T) {
		text := "---TWITTER---\n3. third\n1. first\n---TWITTER---"
		assert.Equal(t, []string{"third", "first"}, generate.ParseTweets(text))
	})

	t.Run("no block", func(t *testing.T) {
		assert.Empty(t, generate.ParseTweets("nothing here"))
	})
}

func TestParse(t *testing.T) {
	text := "---BLOG---\n# Ep 1\n...\n---BLOG---\n\n" +
		"---TWITTER---\n1. Great ep!\n2. Check it out\n3. Subscribe now\n---TWITTER---\n" +
		"---SEO_KEYWORDS---\npodcasts, marketing\n---SEO_KEYWORDS---"

	got := generate.Parse(text)

	assert.Equal(t, "# Ep 1\n...", got.Blog)
	assert.Equal(t, []string{"Great ep!", "Check it out", "Subscribe now"}, got.Tweets)
	assert.Equal(t, "podcasts, marketing", got.SEOKeywords)
	assert.Empty(t, got.LinkedIn)
	assert.Empty(t, got.Headlines)
	assert.Empty(t, got.TwitterThread)

	// Parsing is pure.
	assert.Equal(t, got, generate.Parse(text))
}

func TestParseIncremental(t *testing.T) {
	full := "---BLOG---\nbody\n---BLOG---\n---QUOTES---\n\"q\"\n---QUOTES---"

	var acc strings.Builder
	var seenBlog bool
	for _, r := range full {
		acc.WriteRune(r)
		s := generate.Parse(acc.String())
		if s.Blog != "" {
			seenBlog = true
			assert.Equal(t, "body", s.Blog)
		}
	}
	assert.True(t, seenBlog)
	assert.Equal(t, `"q"`, generate.Parse(acc.String()).Quotes)
}

func TestPromptDelimitersRoundTrip(t *testing.T) {
	// Every tag in the prompt must be extractable by the parser.
	prompt := generate.BuildPrompt("", "")
	for _, tag := range generate.Tags() {
		assert.NotEmpty(t, generate.ExtractSection(prompt, tag), tag)
	}
}
