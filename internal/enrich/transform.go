package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/llm"
	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
)

// Transformer runs the combined enrichment mode: a single LLM call whose
// response carries both the restructured content and the SEO metadata,
// separated by markers.
type Transformer struct {
	llm    llm.Completer
	logger *zap.Logger
}

// NewTransformer builds a Transformer.
func NewTransformer(completer llm.Completer, logger *zap.Logger) *Transformer {
	return &Transformer{llm: completer, logger: logger}
}

type combinedMetadata struct {
	TranslatedTitle string `json:"translatedTitle"`
	Description     string `json:"description"`
	SEOTitle        string `json:"seoTitle"`
}

var (
	contentMarker  = regexp.MustCompile(`===CONTENT===\s*([\s\S]*?)\s*===METADATA===`)
	metadataMarker = regexp.MustCompile(`===METADATA===\s*([\s\S]*?)\s*===END===`)

	openFence  = regexp.MustCompile(`(?i)^` + "```" + `(?:markdown)?\s*`)
	closeFence = regexp.MustCompile(`(?i)\s*` + "```" + `\s*$`)
)

// Markdown produces the final Markdown document, frontmatter included, for a
// scraped article. The call never fails: when the LLM is unavailable or its
// response is malformed, the original content is kept and the metadata falls
// back to the article title.
func (t *Transformer) Markdown(ctx context.Context, article domain.Article) string {
	content := article.Content
	var meta combinedMetadata

	response, err := t.llm.Complete(ctx, llm.Request{
		Model:       llm.ModelDefault,
		Prompt:      combinedPrompt(article),
		MaxTokens:   4000,
		Temperature: 0.7,
	})
	if err != nil {
		t.logger.Error("combined transformation failed, using original content", zap.Error(err))
	} else {
		parsedContent, parsedMeta := t.parseCombined(stripOuterFences(response))
		if parsedContent != "" {
			content = parsedContent
		}
		meta = parsedMeta
	}

	title := meta.TranslatedTitle
	if title == "" {
		title = article.Title
	}
	description := meta.Description
	if description == "" {
		description = article.Title
	}

	words := CountWords(content)
	fm := map[string]any{
		"title":       title,
		"description": description,
		"date":        article.Date,
		"readingTime": ReadingTime(words),
		"wordCount":   words,
	}
	if meta.SEOTitle != "" {
		fm["seoTitle"] = meta.SEOTitle
	}
	return markdown.Serialize(content, fm)
}

// parseCombined locates the three markers and extracts the content and
// metadata sections. A malformed metadata JSON discards the whole response.
func (t *Transformer) parseCombined(response string) (string, combinedMetadata) {
	var content string
	if m := contentMarker.FindStringSubmatch(response); m != nil {
		content = stripOuterFences(m[1])
	}

	var meta combinedMetadata
	if m := metadataMarker.FindStringSubmatch(response); m != nil {
		cleaned := llm.StripFences(m[1])
		if err := json.Unmarshal([]byte(cleaned), &meta); err != nil {
			t.logger.Error("combined metadata parse failed, discarding response", zap.Error(err))
			return "", combinedMetadata{}
		}
	}
	return content, meta
}

func stripOuterFences(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = openFence.ReplaceAllString(cleaned, "")
	cleaned = closeFence.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func combinedPrompt(article domain.Article) string {
	return fmt.Sprintf(`You are an SEO content marketing expert. Transform this article into SEO-optimized Markdown with metadata.

STEP 1 - Transform the content into structured, SEO-optimized Markdown:
- Use h2 (##) and h3 (###) headings to structure the content hierarchically
- CRITICAL: only open with an h2 when it is engaging; never use generic headings like "Introduction" or "Overview", and never reuse the original title as the first h2
- Put code blocks in fenced blocks with the appropriate language tag, inline code in single backticks
- Remove metadata mixed into the content, navigation items and social sharing fragments
- Separate paragraphs with a blank line; use bulleted or numbered lists where appropriate
- Do NOT return demo markdown, only the real content

STEP 2 - Generate the SEO metadata, in the SAME language as the transformed content:
- translatedTitle: the original title translated into the content's language
- description: 150-160 characters, SEO-optimized and engaging
- seoTitle: an SEO-optimized title

Article:
Original title: %s
Content: %s

Reply with this EXACT format:
===CONTENT===
{Structured Markdown content only, no frontmatter, no explanations}
===METADATA===
{
  "translatedTitle": "...",
  "description": "...",
  "seoTitle": "..."
}
===END===`, article.Title, article.Content)
}
