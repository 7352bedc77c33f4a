package factory

import (
	"fmt"

	"github.com/frontdesk/frontdesk-backend/internal/config"
	"github.com/frontdesk/frontdesk-backend/internal/providers"
	"github.com/frontdesk/frontdesk-backend/internal/providers/anthropic"
	"github.com/frontdesk/frontdesk-backend/internal/providers/openai"
)

// CreateProvider creates a provider instance based on configuration
func CreateProvider(id string, cfg config.ProviderConfig) (providers.Provider, error) {
	switch cfg.Type {
	case "anthropic":
		return anthropic.NewProvider(id, cfg)
	case "openai", "openai-compatible", "ollama":
		// Ollama and friends speak the OpenAI API with a custom BaseURL.
		return openai.NewProvider(id, cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// BuildRegistry creates providers for every configured entry and registers
// them. Entries that fail to construct (typically a missing API key) are
// skipped so a partially configured deployment still starts.
func BuildRegistry(cfgs map[string]config.ProviderConfig) (*providers.Registry, []error) {
	registry := providers.NewRegistry()
	var errs []error
	for id, cfg := range cfgs {
		provider, err := CreateProvider(id, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("provider %s: %w", id, err))
			continue
		}
		registry.Register(id, provider)
	}
	return registry, errs
}
