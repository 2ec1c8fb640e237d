package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vdobler/vizcore/hierarchy"
	"github.com/vdobler/vizcore/stat"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Chart    ChartConfig
	Slicer   SlicerConfig
	LogLevel slog.Level
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the property store. Driver "memory" keeps state
// in process.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// ChartConfig holds box and whisker defaults
type ChartConfig struct {
	Whisker      stat.WhiskerPolicy
	ShowOutliers bool
}

// SlicerConfig holds hierarchy slicer defaults
type SlicerConfig struct {
	Mode       hierarchy.Mode
	SelfFilter bool
}

// env looks variables up in the process environment first and in the
// dotenv files second.
type env struct {
	file map[string]string
	errs []error
}

// Load reads configuration from environment variables. Variables missing
// from the environment are taken from the given dotenv files, or from
// ./.env if no file is given and it exists.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	e := &env{file: map[string]string{}}
	if len(files) > 0 {
		vars, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, strings.Join(files, ", "), err)
		}
		e.file = vars
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            e.get("VIZCORE_ADDR", ":8080"),
			ShutdownTimeout: e.duration("VIZCORE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver: e.get("VIZCORE_DB_DRIVER", "memory"),
			DSN:    e.get("VIZCORE_DB_DSN", ""),
		},
		Chart: ChartConfig{
			ShowOutliers: e.bool("VIZCORE_SHOW_OUTLIERS", false),
		},
		Slicer: SlicerConfig{
			Mode:       hierarchy.Multi,
			SelfFilter: e.bool("VIZCORE_SELF_FILTER", false),
		},
	}

	whisker, err := stat.ParseWhiskerPolicy(e.get("VIZCORE_WHISKER", "minmax"))
	e.check(err)
	cfg.Chart.Whisker = whisker

	if e.bool("VIZCORE_SINGLE_SELECT", true) {
		cfg.Slicer.Mode = hierarchy.Single
	}

	e.check(cfg.LogLevel.UnmarshalText([]byte(e.get("VIZCORE_LOG_LEVEL", "info"))))

	if cfg.Database.Driver != "memory" && cfg.Database.DSN == "" {
		e.check(fmt.Errorf("VIZCORE_DB_DSN is required for driver %s", cfg.Database.Driver))
	}

	if len(e.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(e.errs...))
	}
	return cfg, nil
}

func (e *env) check(err error) {
	if err != nil {
		e.errs = append(e.errs, err)
	}
}

func (e *env) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := e.file[key]; value != "" {
		return value
	}
	return defaultValue
}

func (e *env) bool(key string, defaultValue bool) bool {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.check(fmt.Errorf("%s: %q is not a boolean", key, value))
		return defaultValue
	}
	return b
}

func (e *env) duration(key string, defaultValue time.Duration) time.Duration {
	value := e.get(key, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.check(fmt.Errorf("%s: %q is not a duration", key, value))
		return defaultValue
	}
	return d
}
