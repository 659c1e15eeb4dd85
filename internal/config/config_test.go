package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-scout-metrics/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 4)
				convey.So(cfg.MinMatches, convey.ShouldEqual, 5)
				convey.So(cfg.XALookahead, convey.ShouldEqual, 5)
				convey.So(cfg.ProgressivePassMin, convey.ShouldEqual, 10.0)
				convey.So(cfg.ProgressiveCarryMin, convey.ShouldEqual, 5.0)
				convey.So(cfg.HTTPTimeout, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.Variant, convey.ShouldEqual, "full")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOUT_MIN_MATCHES", "3")
			_ = os.Setenv("SCOUT_WORKERS", "8")
			_ = os.Setenv("SCOUT_HTTP_TIMEOUT", "5s")
			_ = os.Setenv("SCOUT_VARIANT", "basic")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinMatches, convey.ShouldEqual, 3)
				convey.So(cfg.Workers, convey.ShouldEqual, 8)
				convey.So(cfg.HTTPTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Variant, convey.ShouldEqual, "basic")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := filepath.Join(t.TempDir(), "scout.yaml")
			content := "min_matches: 7\nxa_lookahead: 3\nbase_url: http://localhost:9999/data\n"
			convey.So(os.WriteFile(path, []byte(content), 0o644), convey.ShouldBeNil)

			convey.Convey("Then file values apply and env still wins", func() {
				_ = os.Setenv("SCOUT_MIN_MATCHES", "2")
				defer clearConfigEnvVars()

				cfg, err := config.Load(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinMatches, convey.ShouldEqual, 2)
				convey.So(cfg.XALookahead, convey.ShouldEqual, 3)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "http://localhost:9999/data")
			})

			convey.Convey("Then SCOUT_CONFIG locates the file", func() {
				_ = os.Setenv("SCOUT_CONFIG", path)
				defer clearConfigEnvVars()

				cfg, err := config.Load("")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinMatches, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When env produces an invalid value", func() {
			_ = os.Setenv("SCOUT_XA_LOOKAHEAD", "9")
			defer clearConfigEnvVars()

			_, err := config.Load("")

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given default config", t, func() {
		convey.So(config.New().Validate(), convey.ShouldBeNil)

		cases := map[string]func(c *config.Config){
			"zero workers":     func(c *config.Config) { c.Workers = 0 },
			"zero min matches": func(c *config.Config) { c.MinMatches = 0 },
			"lookahead 0":      func(c *config.Config) { c.XALookahead = 0 },
			"negative pass":    func(c *config.Config) { c.ProgressivePassMin = -1 },
			"bad variant":      func(c *config.Config) { c.Variant = "huge" },
			"bad log format":   func(c *config.Config) { c.LogFormat = "xml" },
			"no timeout":       func(c *config.Config) { c.HTTPTimeout = 0 },
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				c := config.New()
				mutate(c)
				convey.So(errors.Is(c.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func clearConfigEnvVars() {
	for _, k := range []string{
		"SCOUT_CONFIG", "SCOUT_MIN_MATCHES", "SCOUT_WORKERS", "SCOUT_HTTP_TIMEOUT",
		"SCOUT_VARIANT", "SCOUT_XA_LOOKAHEAD",
	} {
		_ = os.Unsetenv(k)
	}
}
