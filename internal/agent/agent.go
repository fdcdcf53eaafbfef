// Package agent implements the ReAct investigation loop (C6): a bounded
// finite-state machine that alternates Thought/Action/Observation/Reflection
// steps against a live host, gating risky actions on confirmation and
// recording every step for audit. Grounded on
// original_source/src/agent/{loop,state}.rs.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kaido-cli/kaido/internal/confirm"
	"github.com/kaido-cli/kaido/internal/kubectlctx"
	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/mentor"
	"github.com/kaido-cli/kaido/internal/tools"
)

const (
	maxIterations      = 20
	maxExecutionTime   = 5 * time.Minute
	thoughtHistoryN    = 6
	thoughtStepChars   = 150
)

var completionMarkers = []string{"solution:", "task complete", "problem solved"}

// ProgressFunc receives a reference to each newly appended step, in order,
// before the loop proceeds to the next one.
type ProgressFunc func(Step)

// ConfirmFunc presents a confirmation prompt to the driving caller and
// blocks until the user resolves it, returning the prompt's final Action.
type ConfirmFunc func(ctx context.Context, prompt *confirm.Prompt) confirm.Action

// Agent runs the ReAct loop against a registry of tools, an LLM backend for
// thought/reflection generation, and an optional mentor engine for
// pedagogical annotation.
type Agent struct {
	backend     llm.Backend
	registry    *tools.Registry
	mentor      *mentor.Engine
	toolContext *tools.Context
	env         kubectlctx.EnvironmentType

	ExplainMode bool
	OnProgress  ProgressFunc
	OnConfirm   ConfirmFunc
}

// New builds an Agent. mentorEngine may be nil and OnConfirm may be left
// unset; ExplainMode defaults to on per spec §4.6 step 5, and with a nil
// mentor the annotation step degrades to a no-op.
func New(backend llm.Backend, registry *tools.Registry, mentorEngine *mentor.Engine, toolContext *tools.Context, env kubectlctx.EnvironmentType) *Agent {
	return &Agent{
		backend:     backend,
		registry:    registry,
		mentor:      mentorEngine,
		toolContext: toolContext,
		env:         env,
		ExplainMode: true,
	}
}

// Run drives the ReAct cycle to completion, to a terminal Stopped/Failed
// state, or to a pause at AwaitingConfirmation (only when OnConfirm is
// unset). Calling Run again on a paused State continues with a new
// iteration; the Action that was awaiting confirmation is not executed.
func (a *Agent) Run(ctx context.Context, state *State) error {
	if state.StartedAt.IsZero() {
		state.StartedAt = time.Now()
	}
	state.Status = StatusRunning

	for state.Status == StatusRunning {
		if err := ctx.Err(); err != nil {
			state.Status = StatusStopped
			state.Reason = "cancelled"
			return nil
		}

		// Step 1: termination check.
		if state.Iteration >= maxIterations {
			state.Status = StatusStopped
			state.Reason = "max iterations"
			break
		}
		if time.Since(state.StartedAt) >= maxExecutionTime {
			state.Status = StatusStopped
			state.Reason = "timeout"
			break
		}
		state.Iteration++

		// Step 2: thought generation.
		thought, err := a.think(ctx, state)
		if err != nil {
			state.Status = StatusFailed
			state.Reason = fmt.Sprintf("thought generation failed: %v", err)
			break
		}
		a.appendStep(state, Step{Kind: StepThought, Content: thought})

		// Step 3: completion detection.
		if isComplete(thought) {
			state.Status = StatusCompleted
			state.RootCause = thought
			break
		}

		// Step 4: action parsing.
		toolName, command := parseAction(thought)
		actionStep := a.appendStep(state, Step{Kind: StepAction, Content: command, ToolUsed: toolName})

		// Step 5: pedagogical annotation.
		if a.ExplainMode && a.mentor != nil {
			guidance := a.mentor.Generate(ctx, toolName, command)
			if guidance.Explanation != "" {
				actionStep.Explanation = guidance.Explanation
				state.Steps[len(state.Steps)-1] = actionStep
				a.fireProgress(actionStep)
			}
		}

		// Step 6: risk-gated execution.
		t, hasTool := a.registry.Get(toolName)
		risk := a.classifyRisk(t, hasTool, command)

		action, resolved := a.gate(ctx, state, toolName+" "+command, risk)
		if !resolved {
			state.Status = StatusAwaitingConfirmation
			return nil
		}
		if action == confirm.ActionCancelled {
			state.Status = StatusStopped
			state.Reason = "confirmation declined"
			break
		}

		result, execErr := a.execute(ctx, t, hasTool, command)
		if execErr != nil {
			state.Status = StatusFailed
			state.Reason = fmt.Sprintf("execution failed: %v", execErr)
			break
		}

		// Step 7: observation.
		observation := formatObservation(result)
		success := result.Success()
		a.appendStep(state, Step{Kind: StepObservation, Content: observation, Success: &success})
		state.CollectedInfo = append(state.CollectedInfo, CommandObservation{Command: command, Observation: observation})

		// Step 8: reflection.
		reflection, err := a.reflect(ctx, state, observation)
		if err != nil {
			reflection = "unable to reflect on this observation"
		}
		a.appendStep(state, Step{Kind: StepReflection, Content: reflection})
	}

	return nil
}

func (a *Agent) appendStep(state *State, step Step) Step {
	appended := state.AppendStep(step)
	a.fireProgress(appended)
	return appended
}

func (a *Agent) fireProgress(step Step) {
	if a.OnProgress != nil {
		a.OnProgress(step)
	}
}

// classifyRisk uses the matched tool's ClassifyRisk when one was found by
// name, otherwise falls back to the registry's default shell classification
// (spec §4.6 step 6).
func (a *Agent) classifyRisk(t tools.Tool, hasTool bool, command string) tools.RiskLevel {
	if hasTool {
		return t.ClassifyRisk(command, a.toolContext)
	}
	return tools.DefaultClassifyRisk(command)
}

// gate consults the confirmation matrix and, when a prompt is required,
// hands it to OnConfirm. It returns resolved=false when no OnConfirm is
// wired and the mode demands interaction, so the caller can pause the loop
// and let an external driver present the prompt on a later Run call.
//
// fullCommand is the tool-name-prefixed command as parsed from the ACTION
// line (toolName + " " + command), not the tool-stripped command used for
// ClassifyRisk/Execute: confirm.ExpectedToken's fallback rules assume
// parts[0] is the tool name, matching original_source/src/ui/confirmation.rs's
// extract_resource_name.
func (a *Agent) gate(ctx context.Context, state *State, fullCommand string, risk tools.RiskLevel) (confirm.Action, bool) {
	mode := confirm.ModeFor(risk, a.env)
	if mode == confirm.ModeNone {
		return confirm.ActionConfirmed, true
	}
	if a.OnConfirm == nil {
		return confirm.ActionPending, false
	}
	prompt := confirm.NewPrompt(fullCommand, risk, a.env)
	action := a.OnConfirm(ctx, prompt)
	return action, true
}

func (a *Agent) execute(ctx context.Context, t tools.Tool, hasTool bool, command string) (tools.ExecutionResult, error) {
	if hasTool {
		return t.Execute(ctx, command)
	}
	return tools.DefaultShellExecute(ctx, command)
}

func (a *Agent) think(ctx context.Context, state *State) (string, error) {
	prompt := buildThoughtPrompt(state, a.registry.Names())
	result, err := a.backend.Infer(ctx, prompt)
	if err != nil {
		return "", err
	}
	return result.Reasoning, nil
}

func (a *Agent) reflect(ctx context.Context, state *State, observation string) (string, error) {
	prompt := fmt.Sprintf(`Task: %s

Latest observation:
%s

In one or two sentences, judge whether this observation moves you closer to a root cause, and say what to check next.`, state.Task, observation)
	result, err := a.backend.Infer(ctx, prompt)
	if err != nil {
		return "", err
	}
	return result.Reasoning, nil
}

// buildThoughtPrompt assembles the step-2 prompt: task, available tool
// names, and the last thoughtHistoryN steps truncated to thoughtStepChars
// characters each, oldest first.
func buildThoughtPrompt(state *State, toolNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n\n", state.Task)
	fmt.Fprintf(&b, "Available tools: %s\n\n", strings.Join(toolNames, ", "))

	recent := state.LastN(thoughtHistoryN)
	if len(recent) > 0 {
		b.WriteString("Recent steps:\n")
		for _, step := range recent {
			content := step.Content
			if len(content) > thoughtStepChars {
				content = content[:thoughtStepChars]
			}
			fmt.Fprintf(&b, "[%s] %s\n", step.Kind, content)
		}
		b.WriteString("\n")
	}

	b.WriteString("What is your next thought? If you have identified the root cause, begin a line with \"Solution:\". Otherwise include a line starting with \"ACTION: <tool> <command>\" naming the next command to run.")
	return b.String()
}

func isComplete(thought string) bool {
	lower := strings.ToLower(thought)
	for _, marker := range completionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// parseAction finds the first line beginning (case-insensitively) with
// "ACTION:" and splits its remainder on the first whitespace into
// (tool_name, command). Absent such a line, it falls back to tool_name
// "shell" with the whole thought as the command.
func parseAction(thought string) (toolName, command string) {
	for _, line := range strings.Split(thought, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < len("ACTION:") || !strings.EqualFold(trimmed[:len("ACTION:")], "ACTION:") {
			continue
		}
		remainder := strings.TrimSpace(trimmed[len("ACTION:"):])
		fields := strings.SplitN(remainder, " ", 2)
		if len(fields) == 2 {
			return fields[0], fields[1]
		}
		if len(fields) == 1 {
			return "shell", fields[0]
		}
	}
	return "shell", thought
}

// formatObservation implements spec §4.6 step 7's success/failure rendering.
func formatObservation(result tools.ExecutionResult) string {
	if result.Success() {
		if strings.TrimSpace(result.Stdout) == "" {
			return "executed successfully (no output)"
		}
		return result.Stdout
	}
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(result.Stdout)
	}
	return fmt.Sprintf("Command failed (exit code %d): %s", result.ExitCode, detail)
}
