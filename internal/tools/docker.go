package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

// DockerTool translates natural-language requests into docker CLI
// invocations. Risk table grounded on original_source/src/tools/docker.rs.
type DockerTool struct{}

func NewDockerTool() *DockerTool { return &DockerTool{} }

func (t *DockerTool) Name() string { return "docker" }

func (t *DockerTool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "docker ") {
		return 1.0
	}
	switch {
	case strings.Contains(lower, "docker"):
		return 0.9
	case strings.Contains(lower, "container") || strings.Contains(lower, "image"):
		return 0.6
	default:
		return 0.0
	}
}

func (t *DockerTool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	prompt := fmt.Sprintf(`Translate this request into a single docker CLI command.
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

func (t *DockerTool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	if strings.Contains(lower, "rm") && (strings.Contains(lower, "$(") || strings.Contains(lower, "`")) {
		return RiskCritical
	}
	for _, verb := range []string{"rm", "rmi", "system prune", "volume rm", "network rm"} {
		if strings.Contains(lower, verb) {
			return RiskHigh
		}
	}
	for _, verb := range []string{"run", "create", "restart", "stop", "kill", "build", "push"} {
		if strings.Contains(lower, verb) {
			return RiskMedium
		}
	}
	return RiskLow
}

func (t *DockerTool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	return runShell(ctx, command)
}

func (t *DockerTool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	if strings.Contains(lower, "cannot connect to the docker daemon") {
		return &ErrorExplanation{
			ErrorType: "Docker Daemon Unreachable",
			Reason:    "the Docker daemon is not running or the current user lacks permission to reach its socket",
			Solutions: []Solution{
				{Description: "start the daemon", Command: "sudo systemctl start docker", Risk: RiskMedium},
				{Description: "check daemon status", Command: "sudo systemctl status docker", Risk: RiskLow},
			},
			Source: "pattern",
		}
	}
	if strings.Contains(lower, "no such image") || strings.Contains(lower, "pull access denied") {
		return &ErrorExplanation{
			ErrorType: "Image Not Found",
			Reason:    "the referenced image does not exist locally or in the configured registry, or credentials are missing",
			Solutions: []Solution{
				{Description: "list local images", Command: "docker images", Risk: RiskLow},
				{Description: "pull the image explicitly", Command: "docker pull <image>", Risk: RiskMedium},
			},
			Source: "pattern",
		}
	}
	return nil
}
