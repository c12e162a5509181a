package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/amishk599/jobintake/internal/model"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// ProviderConfig selects and configures a concrete LLMProvider.
type ProviderConfig struct {
	Provider string // "openai" or "anthropic"
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// NewProvider builds the provider named by cfg.Provider. It returns
// model.ErrNoCredentials when no API key is set.
func NewProvider(cfg ProviderConfig) (LLMProvider, error) {
	if cfg.APIKey == "" {
		return nil, model.ErrNoCredentials
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "", "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOpenAIBaseURL
		}
		return NewOpenAIProvider(baseURL, cfg.APIKey, cfg.Model, httpClient), nil
	case "anthropic":
		return NewClaudeProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
