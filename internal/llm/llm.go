// Package llm provides a single-shot inference capability ("infer a command
// from a natural-language prompt") backed by interchangeable providers:
// Anthropic, OpenAI, Gemini and Ollama.
package llm

import "context"

// InferResult is the LLM's answer to a single translate/reflect/explain
// prompt. Every backend in this package puts the raw response text in
// Reasoning and leaves Command and Confidence at their zero values; callers
// that need a command parse it out of Reasoning (see tools.parseTranslation).
type InferResult struct {
	Command    string
	Confidence int // 0-100
	Reasoning  string
}

// Backend is the capability every LLM provider implements. It intentionally
// does not expose multi-turn tool-calling: the agent loop drives the model
// through free-text "ACTION:" lines rather than function-calling, so a
// single prompt-in/result-out contract is all any caller needs.
type Backend interface {
	Infer(ctx context.Context, prompt string) (InferResult, error)
}

// Provider names a concrete backend selection, matching the configuration
// enum in spec §6 (Gemini, Ollama, Auto) extended with the teacher's own
// Anthropic/OpenAI backends (see DESIGN.md, Open-question decision 3).
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderOllama    Provider = "ollama"
	ProviderAuto      Provider = "auto"
)
