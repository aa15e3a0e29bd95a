package api

import (
	"fmt"

	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/config"
)

// NewProvider creates a Provider based on the configuration.
// A missing DeepSeek key yields an apperr.ErrConfiguration error.
func NewProvider(cfg *config.ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case config.ProviderDeepSeek:
		if cfg.DeepSeek.APIKey == "" {
			return nil, fmt.Errorf("%w: DeepSeek API key is not set (export DEEPSEEK_API_KEY or add deepseek.api_key to the config file)", apperr.ErrConfiguration)
		}
		return NewDeepSeekProvider(cfg.DeepSeek)

	case config.ProviderOllama:
		return NewOllamaProvider(cfg.Ollama)

	default:
		return nil, fmt.Errorf("%w: unknown provider type: %s (supported: %s, %s)",
			apperr.ErrConfiguration, cfg.Type, config.ProviderDeepSeek, config.ProviderOllama)
	}
}
