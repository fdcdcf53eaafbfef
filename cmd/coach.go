package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/kaido-cli/kaido/internal/agent"
	"github.com/kaido-cli/kaido/internal/audit"
	"github.com/kaido-cli/kaido/internal/confirm"
	"github.com/kaido-cli/kaido/internal/config"
	"github.com/kaido-cli/kaido/internal/explain"
	"github.com/kaido-cli/kaido/internal/kubectlctx"
	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/mentor"
	"github.com/kaido-cli/kaido/internal/tools"
)

var (
	coachModel       string
	coachProvider    string
	coachExplain     bool
	coachNoExplain   bool
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Start the interactive investigation REPL",
	Long: `Describe an operational problem in plain language and kaido will
investigate your host via kubectl, docker, nginx, apache2, network and SQL
tools, explaining each command before it runs and pausing for confirmation
before anything destructive.

Built-in REPL lines: exit/quit/q, clear/cls, help/?, explain on/off/explain.`,
	RunE: runCoach,
}

func init() {
	rootCmd.AddCommand(coachCmd)
	coachCmd.Flags().StringVar(&coachModel, "model", "", "LLM model to use")
	coachCmd.Flags().StringVar(&coachProvider, "provider", "", "LLM provider: anthropic, openai, gemini, ollama, auto")
	coachCmd.Flags().BoolVar(&coachExplain, "explain", false, "force pedagogical command annotation on")
	coachCmd.Flags().BoolVar(&coachNoExplain, "no-explain", false, "force pedagogical command annotation off")
}

// coachSession bundles the long-lived collaborators a REPL line drives the
// agent loop through.
type coachSession struct {
	backend        llm.Backend
	registry       *tools.Registry
	mentorEngine   *mentor.Engine
	explainer      *explain.Explainer
	sessionLogger  *audit.SessionLogger
	commandLogger  *audit.CommandLogger
	renderer       *glamour.TermRenderer
	toolContext    *tools.Context
	env            kubectlctx.EnvironmentType
	explainMode    bool
}

func runCoach(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if coachProvider != "" {
		cfg.AI.Provider = llm.Provider(coachProvider)
	}
	if coachModel != "" {
		cfg.AI.Model = coachModel
	}
	if coachExplain {
		cfg.ExplainMode = true
	}
	if coachNoExplain {
		cfg.ExplainMode = false
	}

	backend, err := llm.NewBackend(ctx, cfg.AI.Provider, cfg.AI.Model, cfg.AI.GeminiAPIKey, cfg.AI.OllamaBaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM backend: %w", err)
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		renderer = nil
	}

	kctx, err := kubectlctx.Load()
	if err != nil {
		kctx = &kubectlctx.Context{Environment: kubectlctx.EnvUnknown}
	}

	auditDir := filepath.Dir(cfg.Audit.DatabasePath)
	if err := os.MkdirAll(auditDir, 0o700); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	explainCache, err := explain.OpenCache(filepath.Join(auditDir, "explanations.db"), int(cfg.Audit.RetentionDays))
	if err != nil {
		return fmt.Errorf("failed to open explanation cache: %w", err)
	}
	defer explainCache.Close()

	sessionLogger, err := audit.OpenSessionLogger(filepath.Join(auditDir, "agent_audit.db"))
	if err != nil {
		return fmt.Errorf("failed to open agent audit log: %w", err)
	}
	defer sessionLogger.Close()

	commandLogger, err := audit.OpenCommandLogger(filepath.Join(auditDir, "audit.db"))
	if err != nil {
		return fmt.Errorf("failed to open command audit log: %w", err)
	}
	defer commandLogger.Close()

	session := &coachSession{
		backend:       backend,
		registry:      tools.NewRegistry(),
		mentorEngine:  mentor.New(explainCache, backend, cfg.ExplainMode),
		explainer:     explain.New(explainCache, backend),
		sessionLogger: sessionLogger,
		commandLogger: commandLogger,
		renderer:      renderer,
		toolContext:   &tools.Context{Kubectl: kctx},
		env:           kctx.Environment,
		explainMode:   cfg.ExplainMode,
	}

	fmt.Println("kaido coach — describe a problem, or type help for built-ins.")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if handled := session.handleBuiltin(line); handled {
			continue
		}

		session.investigate(ctx, reader, line)
	}
}

// handleBuiltin interprets the REPL built-in lines from spec §6: exit/quit/q,
// clear/cls, help/?, and explain on/off/explain. Returns false when line is
// an ordinary investigation task.
func (s *coachSession) handleBuiltin(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "q":
		os.Exit(0)
	case "clear", "cls":
		fmt.Print("\033[H\033[2J")
		return true
	case "help", "?":
		fmt.Println(`built-ins: exit/quit/q, clear/cls, help/?, explain on/off/explain
anything else is treated as a problem description to investigate`)
		return true
	case "explain":
		fmt.Printf("explain mode is %s\n", onOff(s.explainMode))
		return true
	case "explain on":
		s.explainMode = true
		fmt.Println("explain mode on")
		return true
	case "explain off":
		s.explainMode = false
		fmt.Println("explain mode off")
		return true
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (s *coachSession) investigate(ctx context.Context, reader *bufio.Reader, task string) {
	a := agent.New(s.backend, s.registry, s.mentorEngine, s.toolContext, s.env)
	a.ExplainMode = s.explainMode
	a.OnConfirm = func(ctx context.Context, p *confirm.Prompt) confirm.Action {
		return promptForConfirmation(reader, s.renderer, p)
	}

	sessionID := audit.NewSessionID()
	logger.Info("investigation started", "session_id", sessionID, "task", task, "environment", s.env.String())
	if err := s.sessionLogger.LogSessionStart(sessionID, task); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log session start: %v\n", err)
	}

	var lastTool, lastCommand string
	lastLogged := 0
	a.OnProgress = func(step agent.Step) {
		renderStep(s.renderer, step)
		// an explained Action step is re-fired with the same Number; log it once.
		if step.Number != lastLogged {
			lastLogged = step.Number
			if err := s.sessionLogger.LogStep(sessionID, step); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to log step: %v\n", err)
			}
		}

		switch step.Kind {
		case agent.StepAction:
			lastTool, lastCommand = step.ToolUsed, step.Content
		case agent.StepObservation:
			s.logCommandAudit(lastTool, lastCommand, step)
			if step.Success != nil && !*step.Success {
				if explanation, err := s.explainer.Explain(ctx, step.Content); err == nil {
					renderExplanation(s.renderer, explanation)
				}
			}
		}
	}

	state := &agent.State{Task: task}
	if err := a.Run(ctx, state); err != nil {
		fmt.Fprintf(os.Stderr, "investigation error: %v\n", err)
		return
	}

	if err := s.sessionLogger.LogSessionEnd(sessionID, state); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log session end: %v\n", err)
	}
	logger.Info("investigation finished", "session_id", sessionID, "status", state.Status.String(), "steps", len(state.Steps))

	fmt.Printf("\nstatus: %s\n", state.Status)
	if state.RootCause != "" {
		fmt.Println()
		renderMarkdown(s.renderer, state.RootCause)
	}
}

// logCommandAudit mirrors the just-executed Action/Observation pair into the
// one-shot command-audit table, reusing the same schema a non-agent
// translate-and-run flow would write to.
func (s *coachSession) logCommandAudit(toolName, command string, observation agent.Step) {
	if toolName == "" {
		return
	}
	risk := tools.DefaultClassifyRisk(command)
	if t, ok := s.registry.Get(toolName); ok {
		risk = t.ClassifyRisk(command, s.toolContext)
	}

	action := audit.ActionExecuted
	if observation.Success != nil && !*observation.Success {
		// still executed; a non-zero exit is a domain signal, not a
		// cancellation (see SPEC_FULL.md §7).
		action = audit.ActionExecuted
	}

	cluster, namespace := "", ""
	if s.toolContext.Kubectl != nil {
		cluster, namespace = s.toolContext.Kubectl.Cluster, s.toolContext.Kubectl.Namespace
	}

	entry := audit.CommandEntry{
		UserID:               currentUser(),
		NaturalLanguageInput: "",
		Command:              command,
		Risk:                 risk,
		Environment:          s.env.String(),
		Cluster:              cluster,
		Namespace:            namespace,
		UserAction:           action,
	}
	if err := s.commandLogger.Log(entry); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log command audit entry: %v\n", err)
	}
	logger.Debug("command executed", "tool", toolName, "risk", risk.String(), "environment", s.env.String())
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

func renderMarkdown(renderer *glamour.TermRenderer, text string) {
	if renderer != nil {
		if out, err := renderer.Render(text); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(text)
}

func renderStep(renderer *glamour.TermRenderer, step agent.Step) {
	switch step.Kind {
	case agent.StepThought:
		fmt.Printf("\n[thought] %s\n", step.Content)
	case agent.StepAction:
		fmt.Printf("[action:%s] %s\n", step.ToolUsed, step.Content)
		if step.Explanation != "" {
			fmt.Printf("  %s\n", step.Explanation)
		}
	case agent.StepObservation:
		fmt.Printf("[observation] %s\n", step.Content)
	case agent.StepReflection:
		fmt.Printf("[reflection] %s\n", step.Content)
	}
}

func renderExplanation(renderer *glamour.TermRenderer, explanation tools.ErrorExplanation) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n**%s**\n\n%s\n", explanation.ErrorType, explanation.Reason)
	for _, sol := range explanation.Solutions {
		fmt.Fprintf(&b, "- %s", sol.Description)
		if sol.Command != "" {
			fmt.Fprintf(&b, " (`%s`, risk: %s)", sol.Command, sol.Risk)
		}
		b.WriteString("\n")
	}
	renderMarkdown(renderer, b.String())
}

// promptForConfirmation drives confirm.Prompt.Resolve against stdin,
// re-prompting on a mismatched typed confirmation.
func promptForConfirmation(reader *bufio.Reader, renderer *glamour.TermRenderer, prompt *confirm.Prompt) confirm.Action {
	for {
		switch prompt.Mode {
		case confirm.ModeYesNo:
			fmt.Printf("\n[%s risk] run `%s`? [y/N/e(dit)] ", prompt.Risk, prompt.Command)
		case confirm.ModeTyped:
			fmt.Printf("\n[%s risk] type %q to confirm running `%s`: ", prompt.Risk, prompt.ExpectedToken, prompt.Command)
		default:
			return confirm.ActionConfirmed
		}

		line, _ := reader.ReadString('\n')
		if prompt.Resolve(strings.TrimRight(line, "\r\n")) {
			return prompt.Action
		}
		fmt.Println("that doesn't match; try again or Ctrl-C to abort.")
	}
}
