package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/notexe/nevermiss/internal/apperr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderDeepSeek {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Model.Name != "deepseek-chat" {
		t.Errorf("model = %q", cfg.Model.Name)
	}
	if !strings.HasSuffix(cfg.Store.Path, filepath.Join(".nevermiss", "reminders.csv")) {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if strings.HasPrefix(cfg.Store.Path, "~") {
		t.Errorf("store path not expanded: %q", cfg.Store.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "provider: ollama\nstore:\n  path: /tmp/r.csv\nmodel:\n  temperature: 0.5\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Store.Path != "/tmp/r.csv" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if cfg.Model.Temperature != 0.5 {
		t.Errorf("temperature = %v", cfg.Model.Temperature)
	}
	if cfg.Model.MaxTokens != 512 {
		t.Errorf("max tokens default lost: %d", cfg.Model.MaxTokens)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  path: /tmp/file.csv\n")
	t.Setenv("NEVERMISS_STORE_PATH", "/tmp/env.csv")
	t.Setenv("NEVERMISS_LOG_LEVEL", "debug")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/env.csv" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.DeepSeek.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.DeepSeek.APIKey)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"NEVERMISS_PROVIDER":         "provider",
		"NEVERMISS_STORE_PATH":       "store.path",
		"NEVERMISS_MODEL_MAX_TOKENS": "model.max_tokens",
		"NEVERMISS_DEEPSEEK_API_KEY": "deepseek.api_key",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		t.Setenv("DEEPSEEK_API_KEY", "")
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "openai" }},
		{"empty model", func(c *Config) { c.Model.Name = "" }},
		{"zero max tokens", func(c *Config) { c.Model.MaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 3 }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCredentialError(t *testing.T) {
	cfg := &Config{Provider: ProviderDeepSeek}
	if err := cfg.CredentialError(); !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("missing key: err = %v, want ErrConfiguration", err)
	}

	cfg.DeepSeek.APIKey = "sk-test"
	if err := cfg.CredentialError(); err != nil {
		t.Errorf("with key: %v", err)
	}

	cfg = &Config{Provider: ProviderOllama}
	if err := cfg.CredentialError(); err != nil {
		t.Errorf("ollama needs no key: %v", err)
	}
}

func TestGetProviderConfigPicksOllamaModel(t *testing.T) {
	cfg := &Config{
		Provider: ProviderOllama,
		Model:    ModelConfig{Name: "deepseek-chat", MaxTokens: 100},
		Ollama:   OllamaConfig{Model: "qwen2.5"},
	}
	if got := cfg.GetProviderConfig().Model.Name; got != "qwen2.5" {
		t.Errorf("model = %q", got)
	}

	cfg.Provider = ProviderDeepSeek
	if got := cfg.GetProviderConfig().Model.Name; got != "deepseek-chat" {
		t.Errorf("model = %q", got)
	}
}

func TestProviderTimeout(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{"deepseek", Config{Provider: ProviderDeepSeek, DeepSeek: DeepSeekConfig{Timeout: 60}, Ollama: OllamaConfig{Timeout: 120}}, 60 * time.Second},
		{"ollama", Config{Provider: ProviderOllama, DeepSeek: DeepSeekConfig{Timeout: 60}, Ollama: OllamaConfig{Timeout: 120}}, 120 * time.Second},
		{"unset", Config{Provider: ProviderDeepSeek}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ProviderTimeout(); got != tt.want {
				t.Errorf("ProviderTimeout = %v, want %v", got, tt.want)
			}
		})
	}
}
