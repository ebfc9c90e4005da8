// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	GoogleBooks GoogleBooksConfig `yaml:"googlebooks" mapstructure:"googlebooks"`
	Merge       MergeConfig       `yaml:"merge" mapstructure:"merge"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// PathsConfig locates the landing (raw input) and standard (output) layers.
type PathsConfig struct {
	LandingDir  string `yaml:"landing_dir" mapstructure:"landing_dir"`
	StandardDir string `yaml:"standard_dir" mapstructure:"standard_dir"`
}

// ScrapeConfig configures the Goodreads scraper.
type ScrapeConfig struct {
	SearchURL       string  `yaml:"search_url" mapstructure:"search_url"`
	BookURLTemplate string  `yaml:"book_url_template" mapstructure:"book_url_template"`
	Query           string  `yaml:"query" mapstructure:"query"`
	MaxBooks        int     `yaml:"max_books" mapstructure:"max_books"`
	MaxSearchPages  int     `yaml:"max_search_pages" mapstructure:"max_search_pages"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries      int     `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent       string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// GoogleBooksConfig holds Google Books API settings.
type GoogleBooksConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// MergeConfig configures survivorship.
type MergeConfig struct {
	// SourcePriority ranks sources best-first for winner selection. Adding a
	// source is a configuration change, not a code change.
	SourcePriority []string `yaml:"source_priority" mapstructure:"source_priority"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.landing_dir", "landing")
	v.SetDefault("paths.standard_dir", "standard")
	v.SetDefault("scrape.search_url", "https://www.goodreads.com/search")
	v.SetDefault("scrape.book_url_template", "https://www.goodreads.com/book/show/%s")
	v.SetDefault("scrape.query", "data science")
	v.SetDefault("scrape.max_books", 10)
	v.SetDefault("scrape.max_search_pages", 5)
	v.SetDefault("scrape.requests_per_sec", 0.5)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("googlebooks.base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("googlebooks.timeout_secs", 10)
	v.SetDefault("googlebooks.max_retries", 3)
	v.SetDefault("merge.source_priority", []string{"googlebooks", "goodreads"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "books.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
