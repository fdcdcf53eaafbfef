// Package explain implements the generic error-explanation engine (C5): an
// ordered regex fast path, an LLM-backed slow path, and a durable cache.
// Grounded on original_source/src/error/{patterns,explainer}.rs.
package explain

import (
	"regexp"

	"github.com/kaido-cli/kaido/internal/tools"
)

// pattern binds a regex to the ErrorExplanation template it produces when
// matched. Declaration order matters: more specific patterns must precede
// generic ones, matching original_source/src/error/patterns.rs exactly
// (the Drush-specific 1064-with-file case precedes the generic 1064 case).
// That order is kept even where it does not hold: the generic access-denied
// pattern precedes the image-not-found pattern, so text containing
// "pull access denied" matches Access Denied first.
type pattern struct {
	re    *regexp.Regexp
	build func(groups []string) tools.ErrorExplanation
}

var patterns = []pattern{
	{
		re: regexp.MustCompile(`(?i)ERROR\s+1064.*?([a-zA-Z0-9_\-./]+\.(?:mysql|sql))`),
		build: func(g []string) tools.ErrorExplanation {
			filename := "database.mysql"
			if len(g) > 1 {
				filename = g[1]
			}
			return tools.ErrorExplanation{
				ErrorType: "Drush SQL File Execution Error",
				Reason:    "the piped SQL file contains a statement drush's sqlq could not parse, often due to shell quoting of the file path",
				Solutions: []tools.Solution{
					{Description: "run the file through drush's dedicated CLI entrypoint instead of sqlq", Command: "drush sql:cli < " + filename, Risk: tools.RiskMedium},
				},
				Source: "pattern",
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)ERROR\s+1064`),
		build: func(g []string) tools.ErrorExplanation {
			return tools.ErrorExplanation{
				ErrorType: "MySQL Syntax Error",
				Reason:    "the statement near the reported position is not valid SQL syntax",
				Solutions: []tools.Solution{
					{Description: "check statement syntax against the MySQL reference manual", Risk: tools.RiskLow},
				},
				Source: "pattern",
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)forbidden|cannot\s+(?:list|get|create|delete)`),
		build: func(g []string) tools.ErrorExplanation {
			return tools.ErrorExplanation{
				ErrorType: "RBAC Permission Denied",
				Reason:    "the current kubectl identity lacks a role binding granting this verb on this resource",
				Solutions: []tools.Solution{
					{Description: "inspect bindings for your identity", Command: "kubectl auth can-i --list", Risk: tools.RiskLow},
				},
				Source: "pattern",
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)cannot connect to the docker daemon`),
		build: func(g []string) tools.ErrorExplanation {
			return tools.ErrorExplanation{
				ErrorType: "Docker Daemon Unreachable",
				Reason:    "the Docker daemon is not running or the current user lacks permission to reach its socket",
				Solutions: []tools.Solution{
					{Description: "start the daemon", Command: "sudo systemctl start docker", Risk: tools.RiskMedium},
					{Description: "check daemon status", Command: "sudo systemctl status docker", Risk: tools.RiskLow},
				},
				Source: "pattern",
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)1045|access denied`),
		build: func(g []string) tools.ErrorExplanation {
			return tools.ErrorExplanation{
				ErrorType: "Access Denied",
				Reason:    "the supplied MySQL credentials do not grant access to this host/database",
				Solutions: []tools.Solution{
					{Description: "verify credentials", Command: "mysql -u <user> -p -h <host>", Risk: tools.RiskLow},
				},
				Source: "pattern",
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)current[- ]context is not set|no current context`),
		build: func(g []string) tools.ErrorExplanation {
			return tools.ErrorExplanation{
				ErrorType: "No Active Context",
				Reason:    "kubeconfig has no current-context selected",
				Solutions: []tools.Solution{
					{Description: "list available contexts", Command: "kubectl config get-contexts", Risk: tools.RiskLow},
					{Description: "select a context", Command: "kubectl config use-context <name>", Risk: tools.RiskLow},
				},
				Source: "pattern",
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)no such image|pull access denied`),
		build: func(g []string) tools.ErrorExplanation {
			return tools.ErrorExplanation{
				ErrorType: "Image Not Found",
				Reason:    "the referenced image does not exist locally or in the configured registry, or credentials are missing",
				Solutions: []tools.Solution{
					{Description: "list local images", Command: "docker images", Risk: tools.RiskLow},
					{Description: "pull the image explicitly", Command: "docker pull <image>", Risk: tools.RiskMedium},
				},
				Source: "pattern",
			}
		},
	},
}

// matchPattern runs the ordered pattern list against errorText and returns
// the first match.
func matchPattern(errorText string) (tools.ErrorExplanation, bool) {
	for _, p := range patterns {
		groups := p.re.FindStringSubmatch(errorText)
		if groups == nil {
			continue
		}
		return p.build(groups), true
	}
	return tools.ErrorExplanation{}, false
}
