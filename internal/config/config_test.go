package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != ":8100" {
		t.Errorf("Addr = %q, want :8100", cfg.Addr)
	}
	if cfg.DBPath != "aichorus.db" {
		t.Errorf("DBPath = %q, want aichorus.db", cfg.DBPath)
	}
	for _, provider := range []string{"openai", "anthropic", "gemini"} {
		if _, ok := cfg.Providers[provider]; !ok {
			t.Errorf("missing provider entry %s", provider)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
addr: ":9000"
db_path: "/tmp/test.db"
access_password: "secret"
providers:
  openai:
    api_key: "file-key"
    base_url: "http://localhost:1234"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.AccessPassword != "secret" {
		t.Errorf("AccessPassword = %q", cfg.AccessPassword)
	}
	if cfg.APIKey("openai") != "file-key" {
		t.Errorf("APIKey(openai) = %q", cfg.APIKey("openai"))
	}
	if cfg.BaseURL("openai") != "http://localhost:1234" {
		t.Errorf("BaseURL(openai) = %q", cfg.BaseURL("openai"))
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AICHORUS_ADDR", ":7777")
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")
	t.Setenv("ACCESS_PASSWORD", "env-password")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Addr != ":7777" {
		t.Errorf("Addr = %q, want :7777", cfg.Addr)
	}
	if cfg.APIKey("openai") != "env-openai" {
		t.Errorf("APIKey(openai) = %q", cfg.APIKey("openai"))
	}
	if cfg.APIKey("anthropic") != "env-anthropic" {
		t.Errorf("APIKey(anthropic) = %q", cfg.APIKey("anthropic"))
	}
	if cfg.AccessPassword != "env-password" {
		t.Errorf("AccessPassword = %q", cfg.AccessPassword)
	}
	// Gemini untouched without its env var.
	if cfg.APIKey("gemini") != "" {
		t.Errorf("APIKey(gemini) = %q, want empty", cfg.APIKey("gemini"))
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
providers:
  openai:
    api_key: "file-key"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey("openai") != "env-key" {
		t.Errorf("APIKey(openai) = %q, want env-key", cfg.APIKey("openai"))
	}
}
