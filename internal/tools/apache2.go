package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

// Apache2Tool translates natural-language requests into apache2ctl/httpd
// invocations. Risk table grounded on original_source/src/tools/apache2.rs
// (read in full), including its Debian-vs-RHEL apache2-vs-httpd binary
// naming and its default-to-Medium rule for unrecognized commands.
type Apache2Tool struct{}

func NewApache2Tool() *Apache2Tool { return &Apache2Tool{} }

func (t *Apache2Tool) Name() string { return "apache2" }

func (t *Apache2Tool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "apache") || strings.Contains(lower, "httpd") {
		return 1.0
	}
	if strings.Contains(lower, "virtualhost") || strings.Contains(lower, "vhost") {
		return 0.8
	}
	return 0.0
}

func (t *Apache2Tool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	prompt := fmt.Sprintf(`Translate this request into a single apache2ctl/httpd or systemctl command.
Suggested sub-commands: apache2ctl configtest, apache2ctl -v, apache2ctl -M, apache2ctl -S, systemctl status apache2.
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

func (t *Apache2Tool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	for _, verb := range []string{"remove", "purge", "uninstall"} {
		if strings.Contains(lower, verb) {
			return RiskCritical
		}
	}
	if strings.Contains(lower, "stop") {
		return RiskHigh
	}
	if strings.Contains(lower, "graceful") || strings.Contains(lower, "restart") || strings.Contains(lower, "reload") {
		return RiskMedium
	}
	for _, verb := range []string{"configtest", "-v", "-m", "-s", "status"} {
		if strings.Contains(lower, verb) {
			return RiskLow
		}
	}
	// Unmatched apache2 commands default to Medium, same rationale as nginx.
	return RiskMedium
}

func (t *Apache2Tool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	return runShell(ctx, command)
}

func (t *Apache2Tool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	if strings.Contains(lower, "address already in use") || strings.Contains(lower, "bind") {
		return &ErrorExplanation{
			ErrorType: "Port Conflict",
			Reason:    "another process already holds the port apache2 is trying to bind",
			Solutions: []Solution{
				{Description: "stop apache2 and find the conflicting process", Command: "systemctl stop apache2 && ps aux | grep apache2", Risk: RiskMedium},
				{Description: "find the process holding the port", Command: "sudo lsof -i :80", Risk: RiskLow},
			},
			Source: "pattern",
		}
	}
	if strings.Contains(lower, "syntax error") {
		return &ErrorExplanation{
			ErrorType: "Configuration Syntax Error",
			Reason:    "apache2's configuration has a syntax error",
			Solutions: []Solution{
				{Description: "run a config test", Command: "apache2ctl configtest", Risk: RiskLow},
			},
			Source: "pattern",
		}
	}
	return nil
}
