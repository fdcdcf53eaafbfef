package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

// DrushTool translates natural-language Drupal-administration requests into
// drush invocations. Risk table grounded on
// original_source/src/tools/drush.rs.
type DrushTool struct{}

func NewDrushTool() *DrushTool { return &DrushTool{} }

func (t *DrushTool) Name() string { return "drush" }

func (t *DrushTool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "drush ") {
		return 1.0
	}
	switch {
	case strings.Contains(lower, "drush"):
		return 0.9
	case strings.Contains(lower, "drupal"):
		return 0.6
	default:
		return 0.0
	}
}

func (t *DrushTool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	prompt := fmt.Sprintf(`Translate this Drupal-site-administration request into a single drush command.
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

func (t *DrushTool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	if strings.Contains(lower, "sql:drop") || strings.Contains(lower, "sql-drop") {
		return RiskHigh
	}
	for _, verb := range []string{"cim", "sql:cli", "sqlq", "cr"} {
		if strings.Contains(lower, verb) {
			return RiskMedium
		}
	}
	return RiskLow
}

func (t *DrushTool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	return runShell(ctx, command)
}

// ExplainError checks the Drush-specific pattern first so ".mysql"/".sql"
// file execution errors via sqlq are not misattributed to generic MySQL
// syntax errors (pattern-ordering discipline from spec §4.5).
func (t *DrushTool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	if strings.Contains(lower, "1064") && (strings.Contains(lower, ".mysql") || strings.Contains(lower, ".sql")) {
		return &ErrorExplanation{
			ErrorType: "Drush SQL File Execution Error",
			Reason:    "the piped SQL file contains a statement drush's sqlq could not parse, often due to shell quoting of the file path",
			Solutions: []Solution{
				{Description: "run the file through drush's dedicated CLI entrypoint instead of sqlq", Command: "drush sql:cli < database.mysql", Risk: RiskMedium},
			},
			Source: "pattern",
		}
	}
	return nil
}
