// Package scraper fetches a web page and extracts an article from it.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
)

const (
	fallbackTitle   = "Untitled"
	fallbackContent = "No content found"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Scraper fetches pages with a Colly collector and extracts title and main
// content. Non-2xx responses are still parsed; an empty or unusable page
// degrades to the "Untitled"/"No content found" placeholders rather than an
// error.
type Scraper struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
	now           func() time.Time
}

// New builds a Scraper.
func New(cfg Config, logger *zap.Logger) *Scraper {
	c := colly.NewCollector(
		// Synchronous mode (colly's default). In colly v2.1.0 the Async
		// option ignores its argument and always enables async, so the
		// option must be omitted rather than passed false.
		colly.IgnoreRobotsTxt(),
		// Keep the body of error responses: a 404 page still yields an
		// article with placeholder fields instead of failing the request.
		colly.ParseHTTPErrorResponse(),
	)
	return &Scraper{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
		now:           time.Now,
	}
}

// Scrape fetches the URL and returns the extracted article. The date is the
// current UTC day; fetch transport failures are returned as errors.
func (s *Scraper) Scrape(ctx context.Context, url string) (domain.Article, error) {
	var (
		body      []byte
		responded bool
		fetchErr  error
	)

	collector := s.baseCollector.Clone()
	if s.cfg.UserAgent != "" {
		collector.UserAgent = s.cfg.UserAgent
	}
	timeout := s.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
		responded = true
	})
	collector.OnError(func(r *colly.Response, err error) {
		// A response that made it back, whatever its status, is still
		// parsed; only transport failures are fatal.
		if r != nil && r.StatusCode > 0 {
			body = append([]byte(nil), r.Body...)
			responded = true
			return
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return domain.Article{}, fmt.Errorf("scrape canceled: %w", ctx.Err())
	case err := <-done:
		if fetchErr != nil {
			return domain.Article{}, fmt.Errorf("fetch %s: %w", url, fetchErr)
		}
		if err != nil && !responded {
			return domain.Article{}, fmt.Errorf("fetch %s: %w", url, err)
		}
	}

	title, content := extract(body, s.logger)
	return domain.Article{
		Title:   title,
		Content: content,
		Date:    s.now().UTC().Format("2006-01-02"),
	}, nil
}

// extract pulls the title and main content out of an HTML document. Missing
// pieces yield the documented placeholders.
func extract(body []byte, logger *zap.Logger) (title, content string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Warn("html parse failed", zap.Error(err))
		return fallbackTitle, fallbackContent
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = fallbackTitle
	}

	content = strings.TrimSpace(doc.Find("main").First().Text())
	if content == "" {
		content = fallbackContent
	}
	return title, content
}
