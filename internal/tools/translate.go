package tools

import (
	"encoding/json"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

type translationJSON struct {
	Command    string `json:"command"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// parseTranslation parses an LLM's JSON response into a Translation,
// falling back to the raw reasoning text as the command when the response
// is not valid JSON (the tool-level contract spec §4.1 describes).
func parseTranslation(result llm.InferResult, toolName string) (Translation, error) {
	text := strings.TrimSpace(result.Reasoning)
	text = stripFence(text)

	var parsed translationJSON
	if err := json.Unmarshal([]byte(text), &parsed); err == nil && parsed.Command != "" {
		return Translation{
			Command:    parsed.Command,
			Confidence: parsed.Confidence,
			Reasoning:  parsed.Reasoning,
			Tool:       toolName,
		}, nil
	}

	return Translation{
		Command:    text,
		Confidence: 40,
		Reasoning:  "LLM response was not valid JSON; using raw text as the command",
		Tool:       toolName,
	}, nil
}

// stripFence removes a surrounding ```json ... ``` or ``` ... ``` fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
