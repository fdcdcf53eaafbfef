package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

// SQLTool translates natural-language requests into MySQL-dialect SQL.
// Risk table grounded on original_source/src/tools/sql.rs. Execution is
// deliberately refused — the reference implementation never pipes
// arbitrary SQL through its own process connection.
type SQLTool struct{}

func NewSQLTool() *SQLTool { return &SQLTool{} }

func (t *SQLTool) Name() string { return "sql" }

func (t *SQLTool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	switch {
	case strings.HasPrefix(lower, "select ") || strings.HasPrefix(lower, "insert ") ||
		strings.HasPrefix(lower, "update ") || strings.HasPrefix(lower, "delete from ") ||
		strings.HasPrefix(lower, "mysql "):
		return 1.0
	case strings.Contains(lower, "database") || strings.Contains(lower, "table") || strings.Contains(lower, "mysql") || strings.Contains(lower, "sql"):
		return 0.7
	default:
		return 0.0
	}
}

func (t *SQLTool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	dbHint := "unknown"
	if tc != nil && tc.DB != nil && tc.DB.Database != "" {
		dbHint = tc.DB.Database
	}
	prompt := fmt.Sprintf(`Translate this request into a single MySQL statement.
Database: %s
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, dbHint, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

var hasWhere = regexp.MustCompile(`(?i)\bwhere\b`)

func (t *SQLTool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	if strings.Contains(lower, "drop database") || strings.Contains(lower, "drop schema") {
		return RiskCritical
	}
	if strings.Contains(lower, "delete from") && !hasWhere.MatchString(lower) {
		return RiskCritical
	}
	if strings.Contains(lower, "truncate") && !hasWhere.MatchString(lower) {
		return RiskCritical
	}
	if strings.Contains(lower, "drop table") {
		return RiskHigh
	}
	if strings.Contains(lower, "truncate") && hasWhere.MatchString(lower) {
		return RiskHigh
	}
	for _, verb := range []string{"insert", "update", "delete", "alter", "create"} {
		if strings.Contains(lower, verb) {
			return RiskMedium
		}
	}
	return RiskLow
}

func (t *SQLTool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	return ExecutionResult{}, fmt.Errorf("the sql tool does not execute statements directly; run the equivalent dialect CLI, e.g. mysql -e %q", command)
}

func (t *SQLTool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	if strings.Contains(lower, "1045") || strings.Contains(lower, "access denied") {
		return &ErrorExplanation{
			ErrorType: "Access Denied",
			Reason:    "the supplied MySQL credentials do not grant access to this host/database",
			Solutions: []Solution{
				{Description: "verify credentials", Command: "mysql -u <user> -p -h <host>", Risk: RiskLow},
			},
			Source: "pattern",
		}
	}
	if strings.Contains(lower, "1064") {
		return &ErrorExplanation{
			ErrorType: "MySQL Syntax Error",
			Reason:    "the statement near the reported position is not valid SQL syntax",
			Solutions: []Solution{
				{Description: "check statement syntax against the MySQL reference manual", Risk: RiskLow},
			},
			Source: "pattern",
		}
	}
	return nil
}
