// Package enrich turns scraped articles into SEO-annotated Markdown through
// LLM calls. The pipeline is best-effort: every LLM failure degrades to a
// documented fallback and is logged, never propagated.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/llm"
	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
)

const (
	metadataExcerptLen = 2000
	wordsPerMinute     = 200
)

// Enricher runs the two-call enrichment pipeline: one metadata extraction
// call and one content restructuring call, each with independent fallback.
type Enricher struct {
	llm    llm.Completer
	logger *zap.Logger
}

// NewEnricher builds an Enricher.
func NewEnricher(completer llm.Completer, logger *zap.Logger) *Enricher {
	return &Enricher{llm: completer, logger: logger}
}

type seoMetadata struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Keywords    []string `json:"keywords"`
	Author      string   `json:"author"`
	SEOTitle    string   `json:"seoTitle"`
}

// Enrich annotates an article with SEO metadata and restructured content.
// It never fails: under total LLM unavailability the original content is
// retained and the description falls back to the article title.
func (e *Enricher) Enrich(ctx context.Context, article domain.Article) domain.EnrichedArticle {
	var meta seoMetadata
	if response, err := e.llm.Complete(ctx, llm.Request{
		Model:       llm.ModelMetadata,
		Prompt:      metadataPrompt(article),
		MaxTokens:   500,
		Temperature: 0.7,
	}); err != nil {
		e.logger.Error("metadata generation failed", zap.Error(err))
	} else {
		meta = parseMetadataResponse(response, e.logger)
	}

	content := article.Content
	if transformed, err := e.llm.Complete(ctx, llm.Request{
		Model:       llm.ModelDefault,
		Prompt:      contentPrompt(article),
		MaxTokens:   4000,
		Temperature: 0.7,
	}); err != nil {
		e.logger.Error("content transformation failed, using original content", zap.Error(err))
	} else if trimmed := strings.TrimSpace(transformed); trimmed != "" {
		content = trimmed
	}

	return domain.EnrichedArticle{
		Article: domain.Article{
			Title:   article.Title,
			Content: content,
			Date:    article.Date,
		},
		Meta: finalMetadata(article, content, meta),
	}
}

// Markdown runs the full pipeline and serializes the result, frontmatter
// included.
func (e *Enricher) Markdown(ctx context.Context, article domain.Article) string {
	return FormatMarkdown(e.Enrich(ctx, article))
}

// finalMetadata merges LLM output with deterministic fields. Word count and
// reading time come from the final content, never from the LLM.
func finalMetadata(article domain.Article, content string, meta seoMetadata) domain.Metadata {
	description := meta.Description
	if description == "" {
		description = article.Title
	}
	words := CountWords(content)
	return domain.Metadata{
		Title:       article.Title,
		Description: description,
		Date:        article.Date,
		ReadingTime: ReadingTime(words),
		WordCount:   words,
		Tags:        meta.Tags,
		Keywords:    meta.Keywords,
		Author:      meta.Author,
		SEOTitle:    meta.SEOTitle,
	}
}

func parseMetadataResponse(response string, logger *zap.Logger) seoMetadata {
	var meta seoMetadata
	if err := json.Unmarshal([]byte(llm.StripFences(response)), &meta); err != nil {
		logger.Error("metadata response parse failed", zap.Error(err))
		return seoMetadata{}
	}
	return meta
}

// CountWords counts whitespace-delimited tokens.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// ReadingTime is the estimated minutes to read the given word count, at 200
// words per minute, rounded up.
func ReadingTime(wordCount int) int {
	return int(math.Ceil(float64(wordCount) / wordsPerMinute))
}

// FormatMarkdown serializes an enriched article to Markdown with a
// frontmatter header carrying its metadata.
func FormatMarkdown(article domain.EnrichedArticle) string {
	fm := map[string]any{
		"title":       article.Meta.Title,
		"description": article.Meta.Description,
		"date":        article.Meta.Date,
		"readingTime": article.Meta.ReadingTime,
		"wordCount":   article.Meta.WordCount,
	}
	if len(article.Meta.Tags) > 0 {
		fm["tags"] = article.Meta.Tags
	}
	if len(article.Meta.Keywords) > 0 {
		fm["keywords"] = article.Meta.Keywords
	}
	if article.Meta.Author != "" {
		fm["author"] = article.Meta.Author
	}
	if article.Meta.SEOTitle != "" {
		fm["seoTitle"] = article.Meta.SEOTitle
	}
	return markdown.Serialize(article.Content, fm)
}

func metadataPrompt(article domain.Article) string {
	excerpt := article.Content
	if len(excerpt) > metadataExcerptLen {
		excerpt = excerpt[:metadataExcerptLen]
	}
	return fmt.Sprintf(`Analyze this article and generate a JSON object with the following SEO metadata:
- description: an SEO-optimized description of 150-160 characters
- tags: an array of 3-5 relevant tags
- keywords: an array of 5-10 relevant keywords
- author: the author if mentioned in the article
- seoTitle: an SEO-optimized title

Article:
Title: %s
Content: %s

Reply ONLY with valid JSON, no extra text.`, article.Title, excerpt)
}

func contentPrompt(article domain.Article) string {
	return fmt.Sprintf(`You are an expert in restructuring content for SEO. Transform this article into SEO-optimized Markdown.

STRICT RULES:

1. HIERARCHICAL STRUCTURE:
   - Start with an h2 heading (##) for the introduction or first main topic
   - Use h2 headings (##) for main sections and h3 (###) for subsections
   - Build a logical hierarchy even when the original text has none

2. CODE:
   - Code blocks go in fenced `+"```"+` blocks with the appropriate language tag
   - Inline code goes in single backticks

3. CLEANUP:
   - Remove metadata mixed into the content (dates, tags, "min read", etc.)
   - Remove navigation or menu items
   - Remove translation or social sharing fragments
   - Keep only the clean article content

4. FORMATTING:
   - Paragraphs separated by a blank line
   - Bulleted (-) or numbered (1.) lists where appropriate

Content to transform:
Title: %s
Raw content: %s

Return ONLY the structured Markdown, without frontmatter, explanations or comments.`, article.Title, article.Content)
}
