package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/llm"
	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
)

// fakeCompleter replies per model so the metadata and content calls can be
// driven independently.
type fakeCompleter struct {
	responses map[string]string
	errs      map[string]error
	requests  []llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if err, ok := f.errs[req.Model]; ok {
		return "", err
	}
	return f.responses[req.Model], nil
}

func TestEnrich_BothCallsSucceed(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{responses: map[string]string{
		llm.ModelMetadata: "```json\n{\"description\":\"A fine piece\",\"tags\":[\"go\"],\"keywords\":[\"golang\"],\"author\":\"Jane\",\"seoTitle\":\"Fine Piece\"}\n```",
		llm.ModelDefault:  "## Restructured\n\nclean content",
	}}
	enricher := NewEnricher(completer, zap.NewNop())

	article := domain.Article{Title: "Original", Content: "raw text", Date: "2024-01-15"}
	enriched := enricher.Enrich(context.Background(), article)

	require.Equal(t, "## Restructured\n\nclean content", enriched.Content)
	require.Equal(t, "A fine piece", enriched.Meta.Description)
	require.Equal(t, []string{"go"}, enriched.Meta.Tags)
	require.Equal(t, "Jane", enriched.Meta.Author)
	require.Equal(t, "Fine Piece", enriched.Meta.SEOTitle)
	require.Len(t, completer.requests, 2)
}

func TestEnrich_TotalLLMFailureDegradesGracefully(t *testing.T) {
	t.Parallel()

	boom := errors.New("service unavailable")
	completer := &fakeCompleter{errs: map[string]error{
		llm.ModelMetadata: boom,
		llm.ModelDefault:  boom,
	}}
	enricher := NewEnricher(completer, zap.NewNop())

	article := domain.Article{Title: "Survivor", Content: "one two three", Date: "2024-01-15"}
	enriched := enricher.Enrich(context.Background(), article)

	require.Equal(t, article.Content, enriched.Content, "content must be unchanged")
	require.Equal(t, article.Title, enriched.Meta.Description, "description falls back to the title")
	require.Equal(t, 3, enriched.Meta.WordCount)
	require.Equal(t, 1, enriched.Meta.ReadingTime)
}

func TestEnrich_MalformedMetadataJSONIsAbsorbed(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{responses: map[string]string{
		llm.ModelMetadata: "not json at all",
		llm.ModelDefault:  "better content",
	}}
	enricher := NewEnricher(completer, zap.NewNop())

	enriched := enricher.Enrich(context.Background(), domain.Article{Title: "T", Content: "c"})
	require.Equal(t, "better content", enriched.Content)
	require.Equal(t, "T", enriched.Meta.Description)
	require.Empty(t, enriched.Meta.Tags)
}

func TestEnrich_BlankContentResponseKeepsOriginal(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{responses: map[string]string{
		llm.ModelDefault: "   \n  ",
	}}
	enricher := NewEnricher(completer, zap.NewNop())

	enriched := enricher.Enrich(context.Background(), domain.Article{Title: "T", Content: "keep me"})
	require.Equal(t, "keep me", enriched.Content)
}

func TestEnrich_MetadataPromptUsesExcerpt(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{}
	enricher := NewEnricher(completer, zap.NewNop())

	long := strings.Repeat("x", 5000)
	enricher.Enrich(context.Background(), domain.Article{Title: "T", Content: long})

	require.Len(t, completer.requests, 2)
	metaReq := completer.requests[0]
	require.Equal(t, llm.ModelMetadata, metaReq.Model)
	require.NotContains(t, metaReq.Prompt, strings.Repeat("x", 2001), "metadata call sends at most 2000 content characters")
	contentReq := completer.requests[1]
	require.Contains(t, contentReq.Prompt, long, "content call sends the full article")
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, ReadingTime(0))
	require.Equal(t, 1, ReadingTime(1))
	require.Equal(t, 1, ReadingTime(200))
	require.Equal(t, 2, ReadingTime(201))
	require.Equal(t, 2, ReadingTime(400))
}

func TestEnrich_WordCountRecomputedFromFinalContent(t *testing.T) {
	t.Parallel()

	words := make([]string, 400)
	for i := range words {
		words[i] = "w"
	}
	completer := &fakeCompleter{responses: map[string]string{
		llm.ModelDefault: strings.Join(words, " "),
	}}
	enricher := NewEnricher(completer, zap.NewNop())

	enriched := enricher.Enrich(context.Background(), domain.Article{Title: "T", Content: "short"})
	require.Equal(t, 400, enriched.Meta.WordCount)
	require.Equal(t, 2, enriched.Meta.ReadingTime)
}

func TestFormatMarkdown_RoundTrip(t *testing.T) {
	t.Parallel()

	enriched := domain.EnrichedArticle{
		Article: domain.Article{Title: "T", Content: "## Body", Date: "2024-01-15"},
		Meta: domain.Metadata{
			Title:       "T",
			Description: "D",
			Date:        "2024-01-15",
			ReadingTime: 1,
			WordCount:   2,
			Tags:        []string{"go"},
		},
	}
	parsed := markdown.Parse(FormatMarkdown(enriched))
	require.Equal(t, "## Body", parsed.Content)
	require.Equal(t, "T", parsed.Frontmatter["title"])
	require.Equal(t, "D", parsed.Frontmatter["description"])
	require.Equal(t, 1, parsed.Frontmatter["readingTime"])
	require.Equal(t, []any{"go"}, parsed.Frontmatter["tags"])
	_, hasAuthor := parsed.Frontmatter["author"]
	require.False(t, hasAuthor, "absent optional fields stay out of the frontmatter")
}
