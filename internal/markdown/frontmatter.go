// Package markdown implements the frontmatter codec and filename helpers.
package markdown

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Parsed is the result of splitting a Markdown document into its frontmatter
// header and body content.
type Parsed struct {
	Frontmatter map[string]any
	Content     string
}

// Parse splits a leading triple-dash delimited YAML block from the body text.
// Documents without a frontmatter block, and blocks that fail to parse as
// YAML, yield an empty frontmatter map and the full input as content.
func Parse(text string) Parsed {
	fm, body, ok := splitFrontmatter(text)
	if !ok {
		return Parsed{Frontmatter: map[string]any{}, Content: text}
	}
	parsed := map[string]any{}
	if err := yaml.Unmarshal([]byte(fm), &parsed); err != nil || parsed == nil {
		return Parsed{Frontmatter: map[string]any{}, Content: text}
	}
	return Parsed{Frontmatter: parsed, Content: body}
}

// ParseFile reads a Markdown file from disk and parses it.
func ParseFile(path string) (Parsed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parsed{}, fmt.Errorf("read markdown file: %w", err)
	}
	return Parse(string(data)), nil
}

// Serialize writes a triple-dash frontmatter block followed by the body
// content. It is the inverse of Parse: the parsed content of the result
// equals content, and the parsed map is structurally equal to fm.
func Serialize(content string, fm map[string]any) string {
	if len(fm) == 0 {
		return content
	}
	encoded, err := yaml.Marshal(fm)
	if err != nil {
		// Maps of JSON-serializable values always encode; fall back to the
		// bare content if a caller passed something exotic.
		return content
	}
	var sb strings.Builder
	sb.WriteString(delimiter)
	sb.WriteString("\n")
	sb.Write(encoded)
	sb.WriteString(delimiter)
	sb.WriteString("\n")
	sb.WriteString(content)
	return sb.String()
}

// splitFrontmatter returns the raw YAML block and the remaining body, or
// ok=false when the document does not start with a delimited block.
func splitFrontmatter(text string) (fm, body string, ok bool) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(normalized, delimiter+"\n") {
		return "", "", false
	}
	rest := normalized[len(delimiter)+1:]
	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return "", "", false
	}
	fm = rest[:end+1]
	body = rest[end+1+len(delimiter):]
	// The closing delimiter must sit on its own line.
	if body != "" && !strings.HasPrefix(body, "\n") {
		return "", "", false
	}
	body = strings.TrimPrefix(body, "\n")
	return fm, body, true
}
