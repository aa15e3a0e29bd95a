package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/notexe/nevermiss/internal/apperr"
)

// Provider type constants (duplicated from api package to avoid import cycle)
const (
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

// EnvPrefix is the prefix for environment overrides, e.g. NEVERMISS_STORE_PATH.
const EnvPrefix = "NEVERMISS_"

type Config struct {
	Provider string         `koanf:"provider"`
	DeepSeek DeepSeekConfig `koanf:"deepseek"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Model    ModelConfig    `koanf:"model"`
	Store    StoreConfig    `koanf:"store"`
	Log      LogConfig      `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
	UI       UIConfig       `koanf:"ui"`
}

// DeepSeekConfig holds the hosted endpoint's credential and timeout. The
// SDK targets api.deepseek.com itself.
type DeepSeekConfig struct {
	APIKey  string `koanf:"api_key"`
	Timeout int    `koanf:"timeout"`
}

type OllamaConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
	Model   string `koanf:"model"`
	Format  string `koanf:"format"`
}

type ModelConfig struct {
	Name        string  `koanf:"name"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

// StoreConfig locates the CSV backing file.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// LogConfig controls the zap logger. Empty values leave the choice to the
// command being run.
type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
}

// Load layers defaults, the YAML file at configPath (if it exists) and
// environment variables, in that order.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// The provider's own variable wins over everything else.
	if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
		k.Set("deepseek.api_key", apiKey)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	return &cfg, nil
}

// envKey maps NEVERMISS_STORE_PATH to store.path and
// NEVERMISS_MODEL_MAX_TOKENS to model.max_tokens.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks the settings every command needs. A missing API key is
// not an error here; see CredentialError.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(ProviderDeepSeek, ProviderOllama)),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Model,
		validation.Field(&c.Model.Name, validation.Required),
		validation.Field(&c.Model.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.Model.Temperature, validation.Min(0.0), validation.Max(2.0)),
	); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	if err := validation.ValidateStruct(&c.Store,
		validation.Field(&c.Store.Path, validation.Required),
	); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In("", "debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

// CredentialError returns an apperr.ErrConfiguration error when the
// selected provider cannot be used. Only parsing depends on it.
func (c *Config) CredentialError() error {
	if c.Provider == ProviderDeepSeek && c.DeepSeek.APIKey == "" {
		return fmt.Errorf("%w: DeepSeek API key not found; set DEEPSEEK_API_KEY to enable AI parsing", apperr.ErrConfiguration)
	}
	return nil
}

// ProviderConfig contains provider-specific configuration for the API package.
type ProviderConfig struct {
	Type     string
	DeepSeek DeepSeekConfig
	Ollama   OllamaConfig
	Model    ModelSettings
}

// ModelSettings contains model parameters used by all providers.
type ModelSettings struct {
	Name        string
	MaxTokens   int
	Temperature float64
}

// GetProviderConfig returns the provider configuration for the API package.
func (c *Config) GetProviderConfig() *ProviderConfig {
	name := c.Model.Name
	if c.Provider == ProviderOllama && c.Ollama.Model != "" {
		name = c.Ollama.Model
	}

	return &ProviderConfig{
		Type:     c.Provider,
		DeepSeek: c.DeepSeek,
		Ollama:   c.Ollama,
		Model: ModelSettings{
			Name:        name,
			MaxTokens:   c.Model.MaxTokens,
			Temperature: c.Model.Temperature,
		},
	}
}

// ProviderTimeout is the configured timeout of the selected provider, or
// zero when none is set.
func (c *Config) ProviderTimeout() time.Duration {
	seconds := c.DeepSeek.Timeout
	if c.Provider == ProviderOllama {
		seconds = c.Ollama.Timeout
	}
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
