package post

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/llm"
)

const contentExcerptLen = 500

// CategorySelector picks the best matching category id for a piece of
// content out of the available CMS categories.
type CategorySelector interface {
	Select(ctx context.Context, title, description, content string, categories []domain.Category) (string, error)
}

// Selector asks the LLM to classify content into one of the known
// categories. An id the CMS does not know, or any LLM failure, falls back to
// the first category; the only error is an empty category list.
type Selector struct {
	llm    llm.Completer
	logger *zap.Logger
}

var _ CategorySelector = (*Selector)(nil)

// NewSelector builds a Selector.
func NewSelector(completer llm.Completer, logger *zap.Logger) *Selector {
	return &Selector{llm: completer, logger: logger}
}

// Select implements CategorySelector.
func (s *Selector) Select(
	ctx context.Context,
	title, description, content string,
	categories []domain.Category,
) (string, error) {
	if len(categories) == 0 {
		return "", fmt.Errorf("no categories available")
	}

	response, err := s.llm.Complete(ctx, llm.Request{
		Model:       llm.ModelDefault,
		Prompt:      categoryPrompt(title, description, content, categories),
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Error("category selection failed, using first category", zap.Error(err))
		return categories[0].ID, nil
	}

	selected := strings.TrimSpace(response)
	for _, cat := range categories {
		if cat.ID == selected {
			return cat.ID, nil
		}
	}
	s.logger.Warn("selected category id not found, using first category",
		zap.String("selected", selected),
		zap.String("fallback", categories[0].ID),
	)
	return categories[0].ID, nil
}

func categoryPrompt(title, description, content string, categories []domain.Category) string {
	var list strings.Builder
	for i, cat := range categories {
		fmt.Fprintf(&list, "%d. %s (ID: %s)\n", i+1, cat.Title, cat.ID)
	}
	excerpt := content
	if len(excerpt) > contentExcerptLen {
		excerpt = excerpt[:contentExcerptLen]
	}
	return fmt.Sprintf(`You are a content classification expert.

Analyze this content and choose the most appropriate category from the list.

TITLE: %s
DESCRIPTION: %s
CONTENT (excerpt): %s...

AVAILABLE CATEGORIES:
%s
Return ONLY the id of the chosen category, without explanations or extra text. Just the id.

If no category really matches, choose the first category of the list.`, title, description, excerpt, list.String())
}
