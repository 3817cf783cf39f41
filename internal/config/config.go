// Package config loads application configuration and bootstraps logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scholarlab/citelens/internal/citations"
)

// Config holds the full application configuration.
type Config struct {
	SemanticScholar SemanticScholarConfig `yaml:"semantic_scholar" mapstructure:"semantic_scholar"`
	OpenAlex        OpenAlexConfig        `yaml:"openalex" mapstructure:"openalex"`
	Crossref        CrossrefConfig        `yaml:"crossref" mapstructure:"crossref"`
	Citations       citations.Config      `yaml:"citations" mapstructure:"citations"`
	Store           StoreConfig           `yaml:"store" mapstructure:"store"`
	Server          ServerConfig          `yaml:"server" mapstructure:"server"`
	Enrich          EnrichConfig          `yaml:"enrich" mapstructure:"enrich"`
	Log             LogConfig             `yaml:"log" mapstructure:"log"`
}

// SemanticScholarConfig holds Semantic Scholar API settings. The API key is
// optional; without it the client stays inside the shared rate pool.
type SemanticScholarConfig struct {
	APIKey    string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// OpenAlexConfig holds OpenAlex API settings. Mailto joins the polite pool.
type OpenAlexConfig struct {
	Mailto    string  `yaml:"mailto" mapstructure:"mailto"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CrossrefConfig holds Crossref API settings.
type CrossrefConfig struct {
	Mailto    string  `yaml:"mailto" mapstructure:"mailto"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the paper database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// EnrichConfig configures batch enrichment. Concurrency bounds the number
// of papers in flight at once; provider rate limits are respected inside
// the clients regardless.
type EnrichConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
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
	v.SetEnvPrefix("CITELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("semantic_scholar.base_url", "https://api.semanticscholar.org/graph/v1")
	v.SetDefault("semantic_scholar.rate_limit", 1.0)
	v.SetDefault("openalex.base_url", "https://api.openalex.org")
	v.SetDefault("openalex.rate_limit", 10.0)
	v.SetDefault("crossref.base_url", "https://api.crossref.org")
	v.SetDefault("crossref.rate_limit", 5.0)
	v.SetDefault("citations.page_size", 100)
	v.SetDefault("citations.max_pages", 200)
	v.SetDefault("citations.fallback_page_size", 200)
	v.SetDefault("citations.fallback_max_pages", 25)
	v.SetDefault("citations.affiliation_max_pages", 50)
	v.SetDefault("store.path", "citelens.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("enrich.concurrency", 3)
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

// InitLogger installs the global zap logger: human-readable console output
// for interactive runs, JSON with a service field for everything else.
func InitLogger(cfg LogConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.InitialFields = map[string]interface{}{"service": "citelens"}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
