package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaido-cli/kaido/internal/llm"
)

func TestParseTranslation_ValidJSON(t *testing.T) {
	result := llm.InferResult{Reasoning: `{"command": "kubectl get pods", "confidence": 90, "reasoning": "listing pods"}`}

	translation, err := parseTranslation(result, "kubectl")
	require.NoError(t, err)
	assert.Equal(t, "kubectl get pods", translation.Command)
	assert.Equal(t, 90, translation.Confidence)
	assert.Equal(t, "kubectl", translation.Tool)
}

func TestParseTranslation_FencedJSON(t *testing.T) {
	result := llm.InferResult{Reasoning: "```json\n{\"command\": \"docker ps\", \"confidence\": 80, \"reasoning\": \"list containers\"}\n```"}

	translation, err := parseTranslation(result, "docker")
	require.NoError(t, err)
	assert.Equal(t, "docker ps", translation.Command)
}

func TestParseTranslation_NonJSONFallsBackToRawText(t *testing.T) {
	result := llm.InferResult{Reasoning: "just run `kubectl get pods`"}

	translation, err := parseTranslation(result, "kubectl")
	require.NoError(t, err)
	assert.Equal(t, "just run `kubectl get pods`", translation.Command)
	assert.Equal(t, 40, translation.Confidence)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, stripFence("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripFence(`{"a": 1}`))
}
