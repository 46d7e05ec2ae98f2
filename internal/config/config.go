// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Enrichment modes accepted by openai.mode.
const (
	ModeSplit    = "split"
	ModeCombined = "combined"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Sanity  SanityConfig  `mapstructure:"sanity"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// OpenAIConfig configures the LLM client. An empty APIKey degrades the
// enrichment features instead of preventing startup.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	// Mode selects the enrichment strategy: "split" issues separate
	// metadata and content calls, "combined" issues one delimited call.
	Mode string `mapstructure:"mode"`
}

// SanityConfig identifies the CMS project. Missing credentials disable
// publishing rather than preventing startup.
type SanityConfig struct {
	ProjectID      string `mapstructure:"project_id"`
	Dataset        string `mapstructure:"dataset"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ScraperConfig governs page fetching.
type ScraperConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StorageConfig sets the directory scraped Markdown is written to.
type StorageConfig struct {
	MarkdownDir string `mapstructure:"markdown_dir"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MDX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults registers every key, including the empty credentials:
// AutomaticEnv only overrides keys Viper already knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 7777)
	v.SetDefault("logging.development", true)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.endpoint", "")
	v.SetDefault("openai.timeout_seconds", 60)
	v.SetDefault("openai.mode", ModeSplit)
	v.SetDefault("sanity.project_id", "")
	v.SetDefault("sanity.dataset", "production")
	v.SetDefault("sanity.token", "")
	v.SetDefault("sanity.timeout_seconds", 30)
	v.SetDefault("scraper.user_agent", "mdx-to-sanity/0.1")
	v.SetDefault("scraper.timeout_seconds", 15)
	v.SetDefault("storage.markdown_dir", "storage/markdown")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		return fmt.Errorf("openai.timeout_seconds must be > 0")
	}
	if c.OpenAI.Mode != ModeSplit && c.OpenAI.Mode != ModeCombined {
		return fmt.Errorf("openai.mode must be %q or %q", ModeSplit, ModeCombined)
	}
	return nil
}

// OpenAITimeout returns the LLM client timeout as a duration.
func (c Config) OpenAITimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSeconds) * time.Second
}

// SanityTimeout returns the CMS client timeout as a duration.
func (c Config) SanityTimeout() time.Duration {
	return time.Duration(c.Sanity.TimeoutSeconds) * time.Second
}

// ScraperTimeout returns the page fetch timeout as a duration.
func (c Config) ScraperTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}
