package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSlugLength = 50

var (
	nonWordChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL-safe identifier from free text: lowercase, strip
// punctuation, collapse whitespace/underscore/hyphen runs into single
// hyphens. All-punctuation input yields "".
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWordChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateFilename builds the storage filename for a scraped article:
// "{date}-{slug}.md" with the slug capped at 50 characters and an "untitled"
// fallback for empty slugs.
func GenerateFilename(title, date string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return fmt.Sprintf("%s-%s.md", date, slug)
}
