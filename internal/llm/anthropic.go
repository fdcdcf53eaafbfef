package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicBackend implements Backend using Claude.
type AnthropicBackend struct {
	model  string
	client anthropic.Client
}

// NewAnthropicBackend creates a Claude-backed inference client. The API key
// is read from the ANTHROPIC_API_KEY environment variable by the SDK.
func NewAnthropicBackend(model string) *AnthropicBackend {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicBackend{model: model, client: anthropic.NewClient()}
}

// Infer sends a single prompt to Claude and returns its raw text response
// as the reasoning, with no command/confidence parsing — tools are
// responsible for extracting a command from the reasoning text via their
// own translate prompts.
func (b *AnthropicBackend) Infer(ctx context.Context, prompt string) (InferResult, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return InferResult{}, fmt.Errorf("anthropic request failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return InferResult{Reasoning: text}, nil
}
