// Package mentor implements the supplemental pedagogical-guidance layer
// (§11 of SPEC_FULL.md): per-command-type canned guidance with suggested
// searches, concrete next steps, and background concepts, annotating
// Action steps in the agent loop rather than explaining Observation
// failures (that is internal/explain's job). Grounded on
// original_source/src/mentor/engine.rs.
package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaido-cli/kaido/internal/explain"
	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/tools"
)

// NextStep is one suggested follow-up action, optionally with a command.
type NextStep struct {
	Description string
	Command     string
}

// Guidance is the pedagogical annotation attached to an Action step.
type Guidance struct {
	Explanation    string
	SuggestedSearch []string
	NextSteps      []NextStep
	Concepts       []string
	Source         string // "pattern", "cached", or "llm"
}

// Engine produces Guidance for a given tool/command pair, trying a
// compiled pattern table first, then an LLM call, cached via the same
// SQLite-backed cache mechanics as internal/explain (keyed by command text
// instead of error text).
type Engine struct {
	cache   *explain.Cache
	backend llm.Backend
	enableLLM bool
}

// New builds a mentor Engine. cache/backend may both be nil, in which case
// only pattern-based guidance is produced.
func New(cache *explain.Cache, backend llm.Backend, enableLLM bool) *Engine {
	return &Engine{cache: cache, backend: backend, enableLLM: enableLLM}
}

// Generate returns pedagogical guidance for tool/command, trying the
// compiled pattern table, then the cache, then (if enabled) the LLM.
func (e *Engine) Generate(ctx context.Context, tool, command string) Guidance {
	if g, ok := fromPattern(tool, command); ok {
		return g
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get("mentor:"+tool, command); ok {
			return Guidance{
				Explanation: cached.Reason,
				NextSteps:   solutionsToSteps(cached.Solutions),
				Source:      "cached",
			}
		}
	}

	if !e.enableLLM || e.backend == nil {
		return genericGuidance(command)
	}

	prompt := fmt.Sprintf(`Explain, for someone learning systems operations, why you would run this command and what to check next.
Command: %s
Respond in 2-3 plain sentences, no JSON.`, command)

	result, err := e.backend.Infer(ctx, prompt)
	if err != nil || strings.TrimSpace(result.Reasoning) == "" {
		return genericGuidance(command)
	}

	if e.cache != nil {
		_ = e.cache.Put("mentor:"+tool, command, tools.ErrorExplanation{Reason: result.Reasoning})
	}
	return Guidance{Explanation: result.Reasoning, Source: "llm"}
}

func solutionsToSteps(solutions []tools.Solution) []NextStep {
	steps := make([]NextStep, 0, len(solutions))
	for _, s := range solutions {
		steps = append(steps, NextStep{Description: s.Description, Command: s.Command})
	}
	return steps
}

func genericGuidance(command string) Guidance {
	return Guidance{
		Explanation: fmt.Sprintf("running %q to gather diagnostic information before deciding on a fix", command),
		Source:      "pattern",
	}
}
