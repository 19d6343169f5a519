package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the verdict configuration.
type Config struct {
	Provider        string        `json:"provider"`
	Model           string        `json:"model"`
	Format          string        `json:"format"`
	DefaultLanguage string        `json:"defaultLanguage"`
	Concurrency     int           `json:"concurrency"`
	TimeoutSeconds  int           `json:"timeoutSeconds"`
	MaxFileBytes    int           `json:"maxFileBytes"`
	Addr            string        `json:"addr"`
	Cache           CacheConfig   `json:"cache"`
	Privacy         PrivacyConfig `json:"privacy"`
}

// CacheConfig controls analysis-response caching.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of content sent to providers.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:        "gemini",
		Model:           "gemini-2.0-flash-001",
		Format:          "text",
		DefaultLanguage: "python",
		Concurrency:     4,
		TimeoutSeconds:  300,
		MaxFileBytes:    1 << 20,
		Addr:            ":8000",
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for verdict.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "verdict"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "verdict"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "verdict"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "verdict"), nil
	default:
		return filepath.Join(home, ".config", "verdict"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.DefaultLanguage != "" {
		dst.DefaultLanguage = src.DefaultLanguage
	}
	if src.Concurrency > 0 {
		dst.Concurrency = src.Concurrency
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.MaxFileBytes > 0 {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("VERDICT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("VERDICT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("VERDICT_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("VERDICT_DEFAULT_LANGUAGE"); v != "" {
		cfg.DefaultLanguage = v
	}
	if v := os.Getenv("VERDICT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("VERDICT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("VERDICT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		// Flag overrides reuse the config-key setter; unknown keys were
		// already rejected at flag parse time.
		_ = SetField(cfg, key, v)
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "defaultLanguage":
		cfg.DefaultLanguage = value
	case "addr":
		cfg.Addr = value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("concurrency must be an integer: %w", err)
		}
		cfg.Concurrency = n
	case "timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeoutSeconds must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	case "maxFileBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFileBytes must be an integer: %w", err)
		}
		cfg.MaxFileBytes = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
