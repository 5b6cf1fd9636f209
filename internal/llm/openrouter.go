package llm

import (
	"fmt"
	"net/http"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// OpenRouter attributes traffic to an app by these headers.
	openRouterReferer = "https://github.com/abhisek/learnify"
	openRouterTitle   = "Learnify"
)

// OpenRouterProvider is the OpenAI client pointed at OpenRouter.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// Model IDs are vendor-qualified ("anthropic/claude-3-haiku") and passed
// through without friendly-name mapping.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, "openrouter", attributionTransport{base: http.DefaultTransport})

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(r)
}
