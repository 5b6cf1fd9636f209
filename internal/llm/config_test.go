package llm

import (
	"context"
	"testing"
	"time"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEARNIFY_LLM_PROVIDER", "LEARNIFY_ANTHROPIC_API_KEY", "LEARNIFY_OPENAI_API_KEY",
		"LEARNIFY_GEMINI_API_KEY", "LEARNIFY_OPENROUTER_API_KEY", "LEARNIFY_LLM_TIMEOUT",
		"LEARNIFY_LLM_MAX_ATTEMPTS", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LEARNIFY_LLM_PROVIDER", "openrouter")
	t.Setenv("LEARNIFY_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("LEARNIFY_OPENROUTER_MODEL", "meta-llama/llama-3-8b")
	t.Setenv("LEARNIFY_LLM_TIMEOUT", "2m")
	t.Setenv("LEARNIFY_LLM_MAX_ATTEMPTS", "5")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openrouter" {
		t.Fatalf("provider = %q", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "sk-or" || cfg.OpenRouter.Model != "meta-llama/llama-3-8b" {
		t.Fatalf("openrouter config = %+v", cfg.OpenRouter)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d", cfg.Retry.MaxAttempts)
	}
}

func TestResolveConfig_FallsBackToDiscovery(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-plain")
	t.Setenv("LEARNIFY_LLM_TIMEOUT", "45s")

	cfg := ResolveConfig()
	if cfg.Provider != "openai" {
		t.Fatalf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-plain" {
		t.Fatalf("api key = %q", cfg.OpenAI.APIKey)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("timeout = %s, want env override kept", cfg.Timeout)
	}
}

func TestResolveConfig_ExplicitProviderWins(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("LEARNIFY_LLM_PROVIDER", "mock")
	t.Setenv("GEMINI_API_KEY", "g")

	if cfg := ResolveConfig(); cfg.Provider != "mock" {
		t.Fatalf("provider = %q, want mock", cfg.Provider)
	}
}

func TestNewProvider_ValidatesAndWraps(t *testing.T) {
	ctx := context.Background()

	if _, err := NewProvider(ctx, Config{Provider: "openai"}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}

	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err := NewProvider(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry wrapper, got %T", p)
	}
	if p.ModelID() != "google/gemini-2.0-flash-exp" {
		t.Fatalf("model = %q", p.ModelID())
	}
}
