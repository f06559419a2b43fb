package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Layout.Border != 40 {
			t.Fatalf("expected default border 40, got %v", cfg.Layout.Border)
		}
		if cfg.Store.DSN != "sqlite://planviz.db" {
			t.Fatalf("unexpected default dsn %q", cfg.Store.DSN)
		}
	})

	t.Run("overrides keep other defaults", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nlayout:\n  surface:\n    width: 640\n  border: 12\n  agent:\n    gap: 2\n  node:\n    colors:\n      hospital: white\nlog:\n  level: debug\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Layout.Surface.Width != 640 || cfg.Layout.Surface.Height != 1000 {
			t.Fatalf("unexpected surface %+v", cfg.Layout.Surface)
		}
		if cfg.Layout.Border != 12 {
			t.Fatalf("expected border 12, got %v", cfg.Layout.Border)
		}
		if cfg.Layout.Agent.Gap != 2 || cfg.Layout.Agent.Radius != 15 {
			t.Fatalf("unexpected agent style %+v", cfg.Layout.Agent)
		}
		if cfg.Layout.Node.Colors["hospital"] != "white" || cfg.Layout.Node.Colors["building"] != "grey" {
			t.Fatalf("unexpected node colors %v", cfg.Layout.Node.Colors)
		}
		if cfg.Log.Level != "debug" {
			t.Fatalf("expected debug level, got %q", cfg.Log.Level)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "version: 2\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("negative border", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nlayout:\n  border: -1\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero surface", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nlayout:\n  surface:\n    height: 0\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero agent radius", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nlayout:\n  agent:\n    radius: 0\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown dsn scheme", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nstore:\n  dsn: mysql://localhost\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("postgres dsn", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nstore:\n  dsn: postgres://localhost/planviz\n")
		if _, err := Load(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("bad log level", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nlog:\n  level: loud\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "version: [\n")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeTempConfig(t, string(data))
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected scaffolded config to load, got %v", err)
	}
	if cfg.Layout.Text.FontSize != "24pt" {
		t.Fatalf("expected font size to survive, got %q", cfg.Layout.Text.FontSize)
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("expected warn, got %v %v", level, err)
	}
	level, err = ParseLevel("")
	if err != nil || level != slog.LevelInfo {
		t.Fatalf("expected info, got %v %v", level, err)
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
