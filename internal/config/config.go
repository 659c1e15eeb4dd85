// Package config holds the tool configuration and its layered loading:
// defaults, an optional YAML file, then SCOUT_* environment variables.
// Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-scout-metrics/internal/model"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database holding per-match rows.
	DBPath string `koanf:"db_path"`

	// BaseURL is the root of the StatsBomb open-data tree.
	BaseURL string `koanf:"base_url"`

	// CacheDir stores zstd-compressed responses. Empty disables the cache.
	CacheDir string `koanf:"cache_dir"`

	// HTTPTimeout bounds each request, e.g. "30s".
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// Workers bounds concurrent match fetches during a load.
	Workers int `koanf:"workers"`

	// MinMatches drops players with fewer appearances from season tables.
	MinMatches int `koanf:"min_matches"`

	XALookahead         int     `koanf:"xa_lookahead"`
	ProgressivePassMin  float64 `koanf:"progressive_pass_min"`
	ProgressiveCarryMin float64 `koanf:"progressive_carry_min"`

	// Variant selects the extractor column set: basic or full.
	Variant string `koanf:"variant"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // text or json
}

// New returns a Config populated with defaults.
func New() *Config {
	dir := filepath.Join(userHome(), ".scoutmetrics")
	return &Config{
		DBPath:              filepath.Join(dir, "scout.db"),
		BaseURL:             "https://raw.githubusercontent.com/statsbomb/open-data/master/data",
		CacheDir:            filepath.Join(dir, "cache"),
		HTTPTimeout:         30 * time.Second,
		Workers:             4,
		MinMatches:          5,
		XALookahead:         5,
		ProgressivePassMin:  10,
		ProgressiveCarryMin: 5,
		Variant:             string(model.VariantFull),
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.MinMatches < 1:
		return fmt.Errorf("%w: min_matches must be positive, got %d", ErrInvalidConfig, c.MinMatches)
	case c.XALookahead < 1 || c.XALookahead > 5:
		return fmt.Errorf("%w: xa_lookahead must be within 1..5, got %d", ErrInvalidConfig, c.XALookahead)
	case c.ProgressivePassMin < 0 || c.ProgressiveCarryMin < 0:
		return fmt.Errorf("%w: progressive thresholds must not be negative", ErrInvalidConfig)
	case c.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout must be positive", ErrInvalidConfig)
	}
	if _, ok := model.ParseVariant(c.Variant); !ok {
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
