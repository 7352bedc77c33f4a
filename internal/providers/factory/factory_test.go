package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk-backend/internal/config"
)

func TestCreateProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProviderConfig
		wantErr bool
	}{
		{
			name: "anthropic",
			cfg:  config.ProviderConfig{Type: "anthropic", Name: "Anthropic", APIKey: "sk-ant-test"},
		},
		{
			name: "openai",
			cfg:  config.ProviderConfig{Type: "openai", Name: "OpenAI", APIKey: "sk-test"},
		},
		{
			name: "openai-compatible with base url only",
			cfg:  config.ProviderConfig{Type: "openai-compatible", Name: "Ollama", BaseURL: "http://localhost:11434/v1"},
		},
		{
			name:    "anthropic without key",
			cfg:     config.ProviderConfig{Type: "anthropic", Name: "Anthropic"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			cfg:     config.ProviderConfig{Type: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CreateProvider(tt.name, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Name, p.Name())
			assert.NoError(t, p.ValidateConfig())
		})
	}
}

func TestBuildRegistrySkipsBrokenProviders(t *testing.T) {
	registry, errs := BuildRegistry(map[string]config.ProviderConfig{
		"anthropic": {Type: "anthropic", Name: "Anthropic", APIKey: "sk-ant-test"},
		"openai":    {Type: "openai", Name: "OpenAI"}, // no key, no base URL
	})

	assert.Len(t, errs, 1)
	assert.True(t, registry.Has("anthropic"))
	assert.False(t, registry.Has("openai"))
}
