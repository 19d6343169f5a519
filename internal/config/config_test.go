package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "gemini" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("default concurrency = %d", cfg.Concurrency)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("redaction should be on by default")
	}
	if cfg.DefaultLanguage != "python" {
		t.Errorf("default language = %q", cfg.DefaultLanguage)
	}
}

func TestLoad_FileAndEnvMerge(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "verdict"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := `{"provider":"ollama","concurrency":8}`
	if err := os.WriteFile(filepath.Join(dir, "verdict", "config.json"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VERDICT_MODEL", "llama3")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama (from file)", cfg.Provider)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("concurrency = %d, want 8 (from file)", cfg.Concurrency)
	}
	if cfg.Model != "llama3" {
		t.Errorf("model = %q, want llama3 (from env)", cfg.Model)
	}
	// Untouched fields keep defaults.
	if cfg.Addr != ":8000" {
		t.Errorf("addr = %q, want default", cfg.Addr)
	}
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VERDICT_PROVIDER", "gemini")

	cfg, err := Load(map[string]string{"provider": "anthropic", "concurrency": "2"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic (flag override beats env)", cfg.Provider)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Concurrency)
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "model", "gemini-2.5-pro"); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.Model)
	}

	if err := SetField(&cfg, "concurrency", "nope"); err == nil {
		t.Error("non-integer concurrency should error")
	}
	if err := SetField(&cfg, "bogus", "x"); err == nil {
		t.Error("unknown key should error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Provider = "anthropic"
	cfg.Cache.Enabled = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Provider != "anthropic" || !loaded.Cache.Enabled {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}
