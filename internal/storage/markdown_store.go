// Package storage persists generated Markdown documents on the local
// filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config sets the directory Markdown files are written to.
type Config struct {
	// BaseDir is the root directory for saved articles.
	BaseDir string `mapstructure:"base_dir"`
}

// MarkdownStore writes one Markdown file per scraped article.
type MarkdownStore struct {
	baseDir string
}

// New creates the store and its base directory.
func New(cfg Config) (*MarkdownStore, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &MarkdownStore{baseDir: cfg.BaseDir}, nil
}

// Save writes the document under the given filename.
func (s *MarkdownStore) Save(filename, content string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("filename is required")
	}

	fullPath := filepath.Join(s.baseDir, filename)

	// The filename comes from the slug generator, but reject traversal in
	// case a caller passes something else.
	cleanBase := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected")
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o640); err != nil {
		return fmt.Errorf("failed to save markdown file: %w", err)
	}
	return nil
}
