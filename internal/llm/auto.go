package llm

import (
	"context"
	"fmt"
	"os"
)

// NewBackend constructs the configured provider's Backend. ProviderAuto
// probes environment variables in a fixed precedence order and falls back
// to a local Ollama instance when none are set.
func NewBackend(ctx context.Context, provider Provider, model, geminiAPIKey, ollamaBaseURL string) (Backend, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicBackend(model), nil
	case ProviderOpenAI:
		return NewOpenAIBackend(model), nil
	case ProviderGemini:
		return NewGeminiBackend(ctx, geminiAPIKey, model)
	case ProviderOllama:
		return NewOllamaBackend(ollamaBaseURL, model), nil
	case ProviderAuto, "":
		return autoDetect(ctx, model, geminiAPIKey, ollamaBaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

func autoDetect(ctx context.Context, model, geminiAPIKey, ollamaBaseURL string) (Backend, error) {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return NewAnthropicBackend(model), nil
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAIBackend(model), nil
	}
	if geminiAPIKey != "" || os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		return NewGeminiBackend(ctx, geminiAPIKey, model)
	}
	return NewOllamaBackend(ollamaBaseURL, model), nil
}
