package api

import (
	"errors"
	"testing"

	"github.com/notexe/nevermiss/internal/apperr"
	"github.com/notexe/nevermiss/internal/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ProviderConfig
		wantName string
		wantErr  error
	}{
		{
			name:    "deepseek without key",
			cfg:     config.ProviderConfig{Type: config.ProviderDeepSeek},
			wantErr: apperr.ErrConfiguration,
		},
		{
			name:     "deepseek with key",
			cfg:      config.ProviderConfig{Type: config.ProviderDeepSeek, DeepSeek: config.DeepSeekConfig{APIKey: "sk-test"}},
			wantName: "deepseek",
		},
		{
			name:     "ollama",
			cfg:      config.ProviderConfig{Type: config.ProviderOllama},
			wantName: "ollama",
		},
		{
			name:    "unknown",
			cfg:     config.ProviderConfig{Type: "openai"},
			wantErr: apperr.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(&tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			defer p.Close()
			if p.Name() != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
