// Package post assembles schema-validated CMS posts from Markdown input.
package post

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/llm"
)

// BodyConverter converts Markdown body text into content blocks.
type BodyConverter interface {
	Convert(ctx context.Context, markdownText string) (domain.Body, error)
}

// Converter converts Markdown into Portable Text blocks through an LLM call
// that must return strict JSON. A malformed response is a hard failure: a
// post cannot be built without a body.
type Converter struct {
	llm llm.Completer
}

var _ BodyConverter = (*Converter)(nil)

// NewConverter builds a Converter.
func NewConverter(completer llm.Completer) *Converter {
	return &Converter{llm: completer}
}

// Convert implements BodyConverter.
func (c *Converter) Convert(ctx context.Context, markdownText string) (domain.Body, error) {
	response, err := c.llm.Complete(ctx, llm.Request{
		Model:       llm.ModelDefault,
		Prompt:      portableTextPrompt(markdownText),
		MaxTokens:   4000,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai conversion failed: %w", err)
	}

	var body domain.Body
	if err := json.Unmarshal([]byte(llm.StripFences(response)), &body); err != nil {
		return nil, fmt.Errorf("openai conversion failed: parse response as block content: %w", err)
	}
	return withKeys(body), nil
}

// withKeys fills in any _key the LLM left out; Sanity requires one per block.
func withKeys(body domain.Body) domain.Body {
	out := make(domain.Body, 0, len(body))
	for _, item := range body {
		switch block := item.(type) {
		case domain.Block:
			if block.Key == "" {
				block.Key = newKey()
			}
			out = append(out, block)
		case domain.MainImage:
			if block.Key == "" {
				block.Key = newKey()
			}
			out = append(out, block)
		case domain.CodeBlock:
			if block.Key == "" {
				block.Key = newKey()
			}
			out = append(out, block)
		case domain.YouTubeEmbed:
			if block.Key == "" {
				block.Key = newKey()
			}
			out = append(out, block)
		default:
			out = append(out, item)
		}
	}
	return out
}

func newKey() string {
	return uuid.NewString()[:8]
}

func portableTextPrompt(markdownText string) string {
	return fmt.Sprintf(`You are an expert in converting Markdown to Sanity Portable Text.

Convert this Markdown into a BlockContent (Portable Text) JSON array for Sanity CMS.

EXPECTED STRUCTURE — the array elements can be:
1. Text blocks (_type: "block") with:
   - _key: a unique identifier
   - style: "normal" | "h1" | "h2" | "h3" | "h4" | "blockquote"
   - listItem: "bullet" (optional, for list entries)
   - children: array of spans with _type: "span", text, and marks (["strong"], ["em"], ["code"], or link keys)
   - markDefs: (optional) array for links with _key, _type: "link", href
2. Code blocks (_type: "code") with _key, code and an optional language
3. Images (_type: "mainImage") with _key and asset: {"_type": "reference", "_ref": "image-id"}
4. YouTube embeds (_type: "youtube") with _key and url

RULES:
- Every block MUST have a unique _key
- For links: create a markDef with a unique _key and reference that key in the span's marks
- Bulleted lists use listItem: "bullet"; headings use style h1-h4 per level
- Inline code uses the ["code"] mark; fenced code becomes a "code" block with its language

Markdown to convert:

%s

Return ONLY the valid BlockContent JSON, no explanations, no markdown, no code fences. Just the raw JSON.`, markdownText)
}
