// Package api exposes the HTTP interface for the service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/config"
	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/metrics"
)

// ArticleScraper fetches and extracts an article from a URL.
type ArticleScraper interface {
	Scrape(ctx context.Context, url string) (domain.Article, error)
}

// ArticleTransformer turns a scraped article into final Markdown. It is
// best-effort and never fails.
type ArticleTransformer interface {
	Markdown(ctx context.Context, article domain.Article) string
}

// PostAssembler builds a validated post out of a Markdown document.
type PostAssembler interface {
	Assemble(ctx context.Context, markdownText string, override map[string]any) (domain.Post, error)
}

// Publisher pushes a validated post to the content store.
type Publisher interface {
	Publish(ctx context.Context, p domain.Post) (string, error)
}

// MarkdownSaver persists a generated Markdown document.
type MarkdownSaver interface {
	Save(filename, content string) error
}

// Server wires HTTP handlers to the pipelines. The saver and publisher are
// optional; handlers check for presence before use.
type Server struct {
	router      chi.Router
	scraper     ArticleScraper
	transformer ArticleTransformer
	assembler   PostAssembler
	publisher   Publisher
	saver       MarkdownSaver
	cfg         config.Config
	logger      *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	scraper ArticleScraper,
	transformer ArticleTransformer,
	assembler PostAssembler,
	publisher Publisher,
	saver MarkdownSaver,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		scraper:     scraper,
		transformer: transformer,
		assembler:   assembler,
		publisher:   publisher,
		saver:       saver,
		cfg:         cfg,
		logger:      logger,
	}

	metrics.Init()

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(timeoutMiddleware(5 * time.Minute))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/scrape", func(r chi.Router) {
		r.Post("/", s.handleScrape)
		r.Get("/status", s.handleScrapeStatus)
		r.Get("/{id}", s.handleScrapeByID)
	})

	r.Route("/api/markdown-to-sanity", func(r chi.Router) {
		r.Post("/", s.handleMarkdownToSanity)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}
