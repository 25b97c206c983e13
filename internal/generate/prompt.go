package generate

import (
	"fmt"
	"strings"
)

// Section tags delimiting each region of the model output.
const (
	TagBlog               = "BLOG"
	TagTwitter            = "TWITTER"
	TagLinkedIn           = "LINKEDIN"
	TagShowNotes          = "SHOW_NOTES"
	TagKeyTakeaways       = "KEY_TAKEAWAYS"
	TagQuotes             = "QUOTES"
	TagNewsletter         = "NEWSLETTER"
	TagInstagram          = "INSTAGRAM"
	TagYouTubeDescription = "YOUTUBE_DESCRIPTION"
	TagSEOKeywords        = "SEO_KEYWORDS"
	TagEmailSubject       = "EMAIL_SUBJECT"
	TagTwitterThread      = "TWITTER_THREAD"
	TagHeadlines          = "HEADLINES"
)

// deliverable is one requested section: its tag, the authoring brief and
// the placeholder shown between its delimiters.
type deliverable struct {
	tag         string
	name        string
	brief       string
	placeholder string
}

var deliverables = []deliverable{
	{TagBlog, "Blog", "SEO-friendly blog post in Markdown (title, meta description, headings, body).", "[markdown blog post]"},
	{TagTwitter, "Twitter", "Exactly 3 engaging Twitter/X posts. Number them 1., 2., 3.", "1. [tweet]\n2. [tweet]\n3. [tweet]"},
	{TagLinkedIn, "LinkedIn", "One professional LinkedIn post (paragraph form, thought-leadership).", "[LinkedIn post]"},
	{TagShowNotes, "Show notes", `Catchy title, 2-3 sentence description, then "Key points:" with 5-7 bullet points (no timestamps).`, "[show notes]"},
	{TagKeyTakeaways, "Key takeaways", `"Key Takeaways" heading then 4-6 short bullet points (one line each).`, "[bullets]"},
	{TagQuotes, "Quotes", `"Notable Quotes" then 5-7 pull quotes (one per line, no numbers).`, "[quotes, one per line]"},
	{TagNewsletter, "Newsletter", "Email-style body: short intro, 2-3 paragraphs of value, clear CTA. No subject line.", "[email body]"},
	{TagInstagram, "Instagram", "Two caption options (Caption 1: / Caption 2:), each 1-3 sentences, emoji-friendly.", "Caption 1: [text]\nCaption 2: [text]"},
	{TagYouTubeDescription, "YouTube description", `Video description: 1-2 paragraph summary, then "Topics covered:" with bullet points.`, "[description]"},
	{TagSEOKeywords, "SEO keywords", "Comma-separated list of 10-15 SEO keywords/phrases (one line).", "[comma-separated keywords]"},
	{TagEmailSubject, "Email subject", "Single compelling email subject line for the newsletter (one line).", "[one subject line]"},
	{TagTwitterThread, "Twitter thread", "A 5-7 tweet thread (numbered 1., 2., ...) that expands one key idea from the episode.", "1. [tweet]\n2. [tweet]\n..."},
	{TagHeadlines, "Headlines", `"Headlines" then 5-7 catchy headline options (one per line) for the blog or social.`, "[one headline per line]"},
}

// Tags lists every section tag in prompt order.
func Tags() []string {
	tags := make([]string, len(deliverables))
	for i, d := range deliverables {
		tags[i] = d.tag
	}
	return tags
}

// Delimiter returns the literal that opens and closes a section.
func Delimiter(tag string) string {
	return "---" + tag + "---"
}

// BuildPrompt returns the system instruction for the generation model.
// Empty tone or language leave the corresponding instruction out.
func BuildPrompt(tone, outputLanguage string) string {
	var b strings.Builder

	b.WriteString("You are a content strategist. Given the following podcast transcript, generate all of the following.")
	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(&b, " Use a %s tone throughout where appropriate.", strings.ToLower(tone))
	}
	if outputLanguage = strings.TrimSpace(outputLanguage); outputLanguage != "" {
		fmt.Fprintf(&b, " Generate ALL content in %s. Write every section (blog, tweets, LinkedIn, show notes, etc.) in %s only.",
			outputLanguage, outputLanguage)
	}
	b.WriteString("\n\n")

	for i, d := range deliverables {
		fmt.Fprintf(&b, "%d. **%s** - %s\n", i+1, d.name, d.brief)
	}

	b.WriteString("\nFormat your response with exactly these delimiters. Do not add text before or after:\n")
	for _, d := range deliverables {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", Delimiter(d.tag), d.placeholder, Delimiter(d.tag))
	}

	return strings.TrimRight(b.String(), "\n")
}

// UserContent frames the transcript as the user message.
func UserContent(transcript string) string {
	return "Transcript:\n\n" + transcript
}
