package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/tools"
)

// Explainer is the C5 error-explanation engine: fast-path pattern match,
// falling back to an LLM call, backed by a durable cache for LLM-derived
// explanations.
type Explainer struct {
	cache   *Cache
	backend llm.Backend
}

// New builds an Explainer. cache may be nil, in which case LLM-derived
// explanations are not persisted across runs.
func New(cache *Cache, backend llm.Backend) *Explainer {
	return &Explainer{cache: cache, backend: backend}
}

// Explain implements the fast-path/slow-path flow from spec §4.5: a
// pattern match wins immediately; otherwise the cache is consulted by
// normalized key; otherwise the LLM is asked and the result is cached.
func (e *Explainer) Explain(ctx context.Context, errorText string) (tools.ErrorExplanation, error) {
	if result, ok := matchPattern(errorText); ok {
		return result, nil
	}

	errorType := classifyErrorType(errorText)
	if e.cache != nil {
		if cached, ok := e.cache.Get(errorType, errorText); ok {
			cached.Source = "cached"
			return cached, nil
		}
	}

	if e.backend == nil {
		return fallbackExplanation(errorText), nil
	}

	prompt := buildPrompt(errorText)
	inferResult, err := e.backend.Infer(ctx, prompt)
	if err != nil {
		return fallbackExplanation(errorText), fmt.Errorf("llm explanation failed: %w", err)
	}

	explanation, err := parseExplanation(inferResult.Reasoning)
	if err != nil {
		return fallbackExplanation(errorText), nil
	}
	explanation.Source = "llm"

	if e.cache != nil {
		_ = e.cache.Put(errorType, errorText, explanation)
	}
	return explanation, nil
}

func buildPrompt(errorText string) string {
	truncated := errorText
	if len(truncated) > 1024 {
		truncated = truncated[:1024]
	}
	return fmt.Sprintf(`A command failed with the following output. Explain it for a systems operator.

%s

Respond with strict JSON matching this shape:
{"error_type": "...", "reason": "...", "possible_causes": ["..."], "solutions": [{"description": "...", "command": "...", "risk_level": "low|medium|high|critical"}], "recommended_solution": 0, "documentation_links": ["..."]}`, truncated)
}

type explanationJSON struct {
	ErrorType            string             `json:"error_type"`
	Reason               string             `json:"reason"`
	PossibleCauses       []string           `json:"possible_causes"`
	Solutions            []solutionJSON     `json:"solutions"`
	RecommendedSolution  int                `json:"recommended_solution"`
	DocumentationLinks   []string           `json:"documentation_links"`
}

type solutionJSON struct {
	Description string `json:"description"`
	Command     string `json:"command"`
	RiskLevel   string `json:"risk_level"`
}

// parseExplanation implements the three-tier JSON fallback chain spec §4.5
// requires: direct parse, then a fenced code block, then the first
// brace-delimited substring. This is richer than
// original_source/src/error/explainer.rs's single direct-parse attempt —
// spec.md is authoritative here (see DESIGN.md).
func parseExplanation(raw string) (tools.ErrorExplanation, error) {
	candidates := []string{
		strings.TrimSpace(raw),
		extractFenced(raw),
		extractBraces(raw),
	}

	var lastErr error
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		var parsed explanationJSON
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			lastErr = err
			continue
		}
		return toErrorExplanation(parsed), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON object found in LLM response")
	}
	return tools.ErrorExplanation{}, lastErr
}

func toErrorExplanation(parsed explanationJSON) tools.ErrorExplanation {
	errType := parsed.ErrorType
	if errType == "" {
		errType = "Unknown Error"
	}
	reason := parsed.Reason
	if reason == "" {
		reason = "unable to explain this error"
	}

	solutions := make([]tools.Solution, 0, len(parsed.Solutions))
	for _, s := range parsed.Solutions {
		solutions = append(solutions, tools.Solution{
			Description: s.Description,
			Command:     s.Command,
			Risk:        riskFromString(s.RiskLevel),
		})
	}

	return tools.ErrorExplanation{
		ErrorType:           errType,
		Reason:              reason,
		PossibleCauses:      parsed.PossibleCauses,
		Solutions:           solutions,
		RecommendedSolution: parsed.RecommendedSolution,
		DocumentationLinks:  parsed.DocumentationLinks,
	}
}

func riskFromString(s string) tools.RiskLevel {
	switch strings.ToLower(s) {
	case "medium":
		return tools.RiskMedium
	case "high":
		return tools.RiskHigh
	case "critical":
		return tools.RiskCritical
	default:
		return tools.RiskLow
	}
}

var fencedRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
var bracesRe = regexp.MustCompile(`(?s)\{.*\}`)

func extractFenced(raw string) string {
	m := fencedRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractBraces(raw string) string {
	return bracesRe.FindString(raw)
}

// classifyErrorType produces a coarse bucket used only for cache-key
// construction, independent of whatever error_type string the LLM later
// returns.
func classifyErrorType(errorText string) string {
	lower := strings.ToLower(errorText)
	switch {
	case strings.Contains(lower, "permission denied"):
		return "permission_denied"
	case strings.Contains(lower, "not found"):
		return "not_found"
	case strings.Contains(lower, "connection refused"):
		return "connection_refused"
	case strings.Contains(lower, "timeout"):
		return "timeout"
	default:
		return "generic"
	}
}

// fallbackExplanation is used when the LLM call itself fails or its
// response cannot be parsed under any of the three tiers: it surfaces the
// first meaningful line of the error text rather than failing the whole
// investigation.
func fallbackExplanation(errorText string) tools.ErrorExplanation {
	firstLine := errorText
	for _, line := range strings.Split(errorText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			firstLine = trimmed
			break
		}
	}
	return tools.ErrorExplanation{
		ErrorType: "Unknown Error",
		Reason:    firstLine,
		Source:    "fallback",
	}
}
