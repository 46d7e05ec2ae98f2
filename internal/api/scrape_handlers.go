package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
	"github.com/ptrkvsky/mdx-to-sanity/internal/metrics"
)

type scrapeRequest struct {
	URL *string `json:"url"`
}

// handleScrape drives scrape → enrich → optional file save, returning the
// generated Markdown document as the response body.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == nil {
		writeError(w, s.logger, http.StatusBadRequest, "URL is required and must be a string")
		return
	}

	article, err := s.scraper.Scrape(r.Context(), *req.URL)
	if err != nil {
		s.logger.Error("scraping error", zap.String("url", *req.URL), zap.Error(err))
		metrics.ObserveScrape("failure")
		writeError(w, s.logger, http.StatusInternalServerError, "Failed to scrape and transform content")
		return
	}

	markdownText := s.transformer.Markdown(r.Context(), article)
	s.saveMarkdown(markdownText)
	metrics.ObserveScrape("success")

	w.Header().Set("Content-Type", "text/markdown")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(markdownText)); err != nil {
		s.logger.Error("write markdown response failed", zap.Error(err))
	}
}

// saveMarkdown writes the document to the store when one is configured.
// A write failure is logged, never propagated: the Markdown is still
// returned to the HTTP caller.
func (s *Server) saveMarkdown(markdownText string) {
	if s.saver == nil {
		return
	}
	filename := filenameFor(markdownText)
	if err := s.saver.Save(filename, markdownText); err != nil {
		s.logger.Error("failed to save markdown file",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

// filenameFor derives the storage filename from the document's own
// frontmatter, falling back to "Untitled" and today's date.
func filenameFor(markdownText string) string {
	parsed := markdown.Parse(markdownText)

	title := "Untitled"
	if t, ok := parsed.Frontmatter["title"].(string); ok && t != "" {
		title = t
	}

	date := time.Now().UTC().Format("2006-01-02")
	switch v := parsed.Frontmatter["date"].(type) {
	case string:
		if v != "" {
			date = v
		}
	case time.Time:
		date = v.UTC().Format("2006-01-02")
	}

	return markdown.GenerateFilename(title, date)
}

func (s *Server) handleScrapeStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScrapeByID is a placeholder for fetching a stored scrape result.
func (s *Server) handleScrapeByID(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}
