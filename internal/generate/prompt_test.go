package generate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"podcast-repurposer/internal/generate"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := generate.BuildPrompt("", "")

		assert.NotContains(t, p, "tone")
		assert.NotContains(t, p, "Generate ALL content in")
		assert.Contains(t, p, "Do not add text before or after")
		assert.Contains(t, p, "Exactly 3 engaging Twitter/X posts")
		assert.Contains(t, p, "5-7 tweet thread")
	})

	t.Run("tone and language", func(t *testing.T) {
		p := generate.BuildPrompt("Professional", "French")

		assert.Contains(t, p, "Use a professional tone throughout")
		assert.Contains(t, p, "Generate ALL content in French")
		assert.Contains(t, p, "in French only")
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, generate.BuildPrompt("casual", "German"), generate.BuildPrompt("casual", "German"))
	})

	t.Run("thirteen distinct delimiter pairs", func(t *testing.T) {
		p := generate.BuildPrompt("", "")
		tags := generate.Tags()

		assert.Len(t, tags, 13)
		seen := map[string]bool{}
		for _, tag := range tags {
			assert.False(t, seen[tag])
			seen[tag] = true
			assert.Equal(t, 2, strings.Count(p, generate.Delimiter(tag)), tag)
		}
	})
}

func TestUserContent(t *testing.T) {
	assert.Equal(t, "Transcript:\n\nhello", generate.UserContent("hello"))
}
