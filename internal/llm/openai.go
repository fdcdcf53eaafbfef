package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIBackend implements Backend using OpenAI's chat completions API.
type OpenAIBackend struct {
	model  string
	client openai.Client
}

// NewOpenAIBackend creates an OpenAI-backed inference client. The API key is
// read from the OPENAI_API_KEY environment variable by the SDK.
func NewOpenAIBackend(model string) *OpenAIBackend {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIBackend{model: model, client: openai.NewClient()}
}

// Infer sends a single prompt and returns the model's text response.
func (b *OpenAIBackend) Infer(ctx context.Context, prompt string) (InferResult, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return InferResult{}, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return InferResult{}, fmt.Errorf("openai returned no choices")
	}
	return InferResult{Reasoning: resp.Choices[0].Message.Content}, nil
}
