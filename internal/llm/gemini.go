package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiBackend implements Backend using Google's Gemini models. Grounded on
// the genai.Content/genai.Part construction idiom seen in the pack's
// emergent-company agent executor reference file; the client-construction
// call itself (NewClient/ClientConfig) follows the SDK's documented public
// entry point, since the reference file's own call site was not captured in
// the retrieved excerpt (see DESIGN.md).
type GeminiBackend struct {
	model  string
	client *genai.Client
}

// NewGeminiBackend creates a Gemini-backed inference client. The API key is
// read from GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiBackend{model: model, client: client}, nil
}

// Infer sends a single prompt to Gemini and returns its text response.
func (b *GeminiBackend) Infer(ctx context.Context, prompt string) (InferResult, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, nil)
	if err != nil {
		return InferResult{}, fmt.Errorf("gemini request failed: %w", err)
	}

	return InferResult{Reasoning: resp.Text()}, nil
}
