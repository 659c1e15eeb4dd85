package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/config"
	"github.com/pable/go-scout-metrics/internal/logging"
	"github.com/pable/go-scout-metrics/internal/statsbomb"
	"github.com/pable/go-scout-metrics/internal/storage"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scoutmetrics",
	Short: "Football recruitment analytics from StatsBomb open data",
	Long: `Load event-level match data, aggregate per-player season statistics,
compute derived scouting indices, find similar players and cluster profiles.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $SCOUT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.scoutmetrics/scout.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(competitionsCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup loads configuration, applies persistent flag overrides and builds
// the logger. Logs go to stderr so tables on stdout stay clean.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	log = logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	return nil
}

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func newClient(refresh bool) *statsbomb.Client {
	var cache *statsbomb.Cache
	if cfg.CacheDir != "" {
		cache = statsbomb.NewCache(cfg.CacheDir)
	}
	return statsbomb.NewClient(statsbomb.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
		Cache:   cache,
		Refresh: refresh,
		Logger:  log,
	})
}
