package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"planviz/internal/layout"
)

const DefaultPath = "planviz.yaml"

type Config struct {
	Version int          `yaml:"version"`
	Layout  LayoutConfig `yaml:"layout"`
	Store   StoreConfig  `yaml:"store"`
	Log     LogConfig    `yaml:"log"`
}

type LayoutConfig struct {
	Surface      layout.Surface `yaml:"surface"`
	layout.Style `yaml:",inline"`
}

type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Version: 1,
		Layout:  LayoutConfig{Surface: layout.DefaultSurface(), Style: layout.DefaultStyle()},
		Store:   StoreConfig{DSN: "sqlite://planviz.db"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// Marshal renders cfg as the YAML written by "planviz init".
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	l := cfg.Layout
	if l.Surface.Width <= 0 || l.Surface.Height <= 0 {
		return fmt.Errorf("layout.surface width and height must be positive")
	}
	if l.Border < 0 {
		return fmt.Errorf("layout.border must not be negative")
	}
	if l.Node.Width <= 0 || l.Node.Height <= 0 {
		return fmt.Errorf("layout.node width and height must be positive")
	}
	if l.Edge.Width <= 0 {
		return fmt.Errorf("layout.edge.width must be positive")
	}
	if l.Agent.Radius <= 0 {
		return fmt.Errorf("layout.agent.radius must be positive")
	}
	if l.Agent.Gap < 0 {
		return fmt.Errorf("layout.agent.gap must not be negative")
	}

	if dsn := strings.TrimSpace(cfg.Store.DSN); dsn != "" && !IsSQLiteDSN(dsn) && !IsPostgresDSN(dsn) {
		return fmt.Errorf("store.dsn must start with sqlite://, postgres://, or postgresql://")
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	return nil
}

func IsSQLiteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "sqlite://")
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ParseLevel maps a log.level value to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level %q must be debug, info, warn, or error", level)
	}
}
