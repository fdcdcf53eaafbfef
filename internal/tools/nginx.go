package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

// NginxTool translates natural-language requests into nginx/nginx-ctl
// invocations. Risk table grounded on original_source/src/tools/nginx.rs,
// including its default-to-Medium rule for unrecognized commands.
type NginxTool struct{}

func NewNginxTool() *NginxTool { return &NginxTool{} }

func (t *NginxTool) Name() string { return "nginx" }

func (t *NginxTool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "nginx") {
		return 1.0
	}
	if strings.Contains(lower, "reverse proxy") || strings.Contains(lower, "vhost") || strings.Contains(lower, "virtual host") {
		return 0.6
	}
	return 0.0
}

func (t *NginxTool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	prompt := fmt.Sprintf(`Translate this request into a single nginx or systemctl command for managing nginx.
Suggested sub-commands: nginx -t, nginx -v, nginx -s reload, systemctl status nginx, systemctl restart nginx.
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

func (t *NginxTool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	for _, verb := range []string{"remove", "purge", "uninstall"} {
		if strings.Contains(lower, verb) {
			return RiskCritical
		}
	}
	if strings.Contains(lower, "stop") {
		return RiskHigh
	}
	for _, verb := range []string{"reload", "restart", "start"} {
		if strings.Contains(lower, verb) {
			return RiskMedium
		}
	}
	for _, verb := range []string{"-t", "-v", "status", "configtest"} {
		if strings.Contains(lower, verb) {
			return RiskLow
		}
	}
	// Unmatched nginx commands default to Medium: state-changing intent
	// cannot be ruled out.
	return RiskMedium
}

func (t *NginxTool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	return runShell(ctx, command)
}

func (t *NginxTool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	if strings.Contains(lower, "address already in use") || strings.Contains(lower, "bind()") {
		return &ErrorExplanation{
			ErrorType: "Port Conflict",
			Reason:    "another process is already bound to the port nginx is trying to listen on",
			Solutions: []Solution{
				{Description: "find the process holding the port", Command: "sudo lsof -i :80", Risk: RiskLow},
				{Description: "stop the conflicting service", Command: "sudo systemctl stop <service>", Risk: RiskMedium},
			},
			Source: "pattern",
		}
	}
	if strings.Contains(lower, "syntax") {
		return &ErrorExplanation{
			ErrorType: "Configuration Syntax Error",
			Reason:    "nginx's configuration file has a syntax error at the reported line",
			Solutions: []Solution{
				{Description: "run a config test to see the exact line", Command: "nginx -t", Risk: RiskLow},
			},
			Source: "pattern",
		}
	}
	return nil
}
