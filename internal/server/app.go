// Package server builds and runs the application.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/api"
	"github.com/ptrkvsky/mdx-to-sanity/internal/config"
	"github.com/ptrkvsky/mdx-to-sanity/internal/enrich"
	"github.com/ptrkvsky/mdx-to-sanity/internal/llm"
	"github.com/ptrkvsky/mdx-to-sanity/internal/logging"
	"github.com/ptrkvsky/mdx-to-sanity/internal/post"
	"github.com/ptrkvsky/mdx-to-sanity/internal/sanity"
	"github.com/ptrkvsky/mdx-to-sanity/internal/scraper"
	"github.com/ptrkvsky/mdx-to-sanity/internal/storage"
)

// App contains the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	apiServer *api.Server
}

// Build creates the application's dependencies. Missing OpenAI or Sanity
// credentials degrade those features with a startup warning; they never
// prevent the service from starting.
func Build(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)
	logger.Info("building application dependencies")

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("MDX_OPENAI_API_KEY is not set; LLM transformation features will not work")
	}
	llmClient := llm.New(llm.Config{
		Endpoint: cfg.OpenAI.Endpoint,
		APIKey:   cfg.OpenAI.APIKey,
		Timeout:  cfg.OpenAITimeout(),
	}, logger.Named("llm"))

	pageScraper := scraper.New(scraper.Config{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.ScraperTimeout(),
	}, logger.Named("scraper"))

	var transformer api.ArticleTransformer
	if cfg.OpenAI.Mode == config.ModeCombined {
		transformer = enrich.NewTransformer(llmClient, logger.Named("enrich"))
	} else {
		transformer = enrich.NewEnricher(llmClient, logger.Named("enrich"))
	}

	var saver api.MarkdownSaver
	markdownStore, err := storage.New(storage.Config{BaseDir: cfg.Storage.MarkdownDir})
	if err != nil {
		logger.Warn("markdown store unavailable; generated files will not be saved", zap.Error(err))
	} else {
		saver = markdownStore
	}

	assembler, publisher := buildAssembler(cfg, llmClient, logger)

	apiServer := api.NewServer(
		pageScraper,
		transformer,
		assembler,
		publisher,
		saver,
		cfg,
		logger.Named("api"),
	)

	return &App{cfg: cfg, logger: logger, apiServer: apiServer}, nil
}

// buildAssembler wires the post assembly pipeline. The publisher is nil when
// the CMS is not configured; the API then answers publish requests with
// published=false.
func buildAssembler(cfg config.Config, llmClient *llm.Client, logger *zap.Logger) (*post.Assembler, api.Publisher) {
	converter := post.NewConverter(llmClient)
	selector := post.NewSelector(llmClient, logger.Named("categories"))

	if cfg.Sanity.ProjectID == "" || cfg.Sanity.Token == "" {
		logger.Warn("MDX_SANITY_PROJECT_ID or MDX_SANITY_TOKEN is not set; publishing to Sanity will not work")
		assembler := post.NewAssembler(converter, nil, nil, logger.Named("assembler"))
		return assembler, nil
	}

	cms := sanity.New(sanity.Config{
		ProjectID: cfg.Sanity.ProjectID,
		Dataset:   cfg.Sanity.Dataset,
		Token:     cfg.Sanity.Token,
		Timeout:   cfg.SanityTimeout(),
	}, logger.Named("sanity"))
	assembler := post.NewAssembler(converter, cms, selector, logger.Named("assembler"))
	return assembler, assembler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	return a.Close()
}

// Close flushes the application's observability state.
func (a *App) Close() error {
	if err := a.logger.Sync(); err != nil {
		a.logger.Warn("logger sync failed", zap.Error(err))
	}
	a.logger.Info("shutdown complete")
	return nil
}
