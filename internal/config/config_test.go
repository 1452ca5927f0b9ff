package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
bot:
  token: "123:abc"
redis:
  url: "localhost:6379"
moltin:
  client_id: "id"
  client_secret: "secret"
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Bot.Workers != 8 {
		t.Fatalf("expected default workers 8, got %d", cfg.Bot.Workers)
	}
	if cfg.Bot.Mode != "polling" {
		t.Fatalf("expected default mode polling, got %q", cfg.Bot.Mode)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Moltin.BaseURL != "https://api.moltin.com" {
		t.Fatalf("expected default base url, got %q", cfg.Moltin.BaseURL)
	}
	if cfg.Moltin.Channel != "web store" {
		t.Fatalf("expected default channel, got %q", cfg.Moltin.Channel)
	}
	if cfg.Dispatch.TurnTimeout != 30*time.Second {
		t.Fatalf("expected default turn timeout, got %v", cfg.Dispatch.TurnTimeout)
	}
	if cfg.Dispatch.LockTTL != cfg.Dispatch.TurnTimeout {
		t.Fatalf("lock ttl should follow turn timeout, got %v", cfg.Dispatch.LockTTL)
	}
	if cfg.Redis.StateTTL != 0 {
		t.Fatalf("state ttl should default to no expiry, got %v", cfg.Redis.StateTTL)
	}
	if !cfg.Runtime.Dev {
		t.Fatalf("expected dev mode carried through")
	}
}

func TestLoadConfig_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bot token": `
redis:
  url: "localhost:6379"
moltin:
  client_id: "id"
  client_secret: "secret"
`,
		"redis url": `
bot:
  token: "123:abc"
moltin:
  client_id: "id"
  client_secret: "secret"
`,
		"moltin creds": `
bot:
  token: "123:abc"
redis:
  url: "localhost:6379"
`,
	}
	for name, body := range cases {
		path := writeConfig(t, body)
		if _, err := LoadConfig(path, false); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadConfig_FileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
