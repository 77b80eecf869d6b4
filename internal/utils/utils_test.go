package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

func TestConfigParser(t *testing.T) {
	input := []byte(`{
		// backend
		"url": "https://panel.example.com",
		"log": {"level": 3,},
	}`)

	out, err := ConfigParser().Unmarshal(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out["url"] != "https://panel.example.com" {
		t.Errorf("expected url to be parsed, got %v", out["url"])
	}
}

func TestReloadFromFile(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(fp, []byte(`{
		"session": {"token": "abc"}, // copied from the browser
	}`), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewConfig()
	if err := c.Reload(func(k *koanf.Koanf) error {
		return k.Load(file.Provider(fp), ConfigParser())
	}); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if got := c.String("session.token"); got != "abc" {
		t.Errorf("expected token %q, got %q", "abc", got)
	}
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	c := NewConfig()
	_ = c.Reload(func(k *koanf.Koanf) error {
		return k.Set("url", "http://a")
	})

	err := c.Reload(func(k *koanf.Koanf) error {
		return os.ErrNotExist
	})
	if err == nil {
		t.Fatal("expected reload error")
	}

	if got := c.String("url"); got != "http://a" {
		t.Errorf("expected previous config to be kept, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	logger, closer, err := NewLogger(config.Log{Level: config.LevelNone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected a disabled logger")
	}

	fp := filepath.Join(t.TempDir(), "dokuhost.log")
	logger, closer, err = NewLogger(config.Log{Level: slog.LevelWarn, Format: "json", Output: fp})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected info to be filtered")
	}

	logger.Warn("disk almost full")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(fp)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Error("expected log file to be written")
	}

	if _, _, err := NewLogger(config.Log{Format: "xml"}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
