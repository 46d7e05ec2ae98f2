// Package domain defines the entities flowing through the scrape and publish
// pipelines.
package domain

// Article is the raw result of scraping a page. It is never mutated after
// creation; enrichment produces a new value.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// Metadata carries the SEO annotations attached to an enriched article.
// ReadingTime and WordCount are always derived from the final content.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	ReadingTime int      `json:"readingTime"`
	WordCount   int      `json:"wordCount"`
	Tags        []string `json:"tags,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Author      string   `json:"author,omitempty"`
	SEOTitle    string   `json:"seoTitle,omitempty"`
}

// EnrichedArticle is an Article plus its SEO metadata.
type EnrichedArticle struct {
	Article
	Meta Metadata `json:"metadata"`
}
