// Package confirm implements the risk/environment confirmation matrix (C7)
// and the typed-confirmation token-extraction rule, grounded on
// original_source/src/ui/confirmation.rs.
package confirm

import (
	"strings"

	"github.com/kaido-cli/kaido/internal/kubectlctx"
	"github.com/kaido-cli/kaido/internal/tools"
)

// Mode is the interaction style required before a risky command executes.
type Mode int

const (
	ModeNone Mode = iota
	ModeYesNo
	ModeTyped
)

// ModeFor implements the confirmation-mode matrix from spec §4.4. Unlike
// the Rust original (which only modeled three risk tiers), Critical always
// requires typed confirmation regardless of environment.
func ModeFor(risk tools.RiskLevel, env kubectlctx.EnvironmentType) Mode {
	switch risk {
	case tools.RiskLow:
		return ModeNone
	case tools.RiskMedium:
		return ModeYesNo
	case tools.RiskHigh:
		if env == kubectlctx.EnvProduction {
			return ModeTyped
		}
		return ModeYesNo
	case tools.RiskCritical:
		return ModeTyped
	default:
		return ModeYesNo
	}
}

// ExpectedToken computes the text a user must type to confirm a Typed-mode
// command: the resource name parsed out of a kubectl delete/drain command,
// falling back to the literal "production" in a production environment, and
// finally to the first word after the tool name.
func ExpectedToken(command string, env kubectlctx.EnvironmentType) string {
	parts := strings.Fields(command)

	for i := 1; i < len(parts); i++ {
		prev := strings.ToLower(parts[i-1])
		if prev != "delete" && prev != "drain" {
			continue
		}
		if strings.HasPrefix(parts[i], "-") || parts[i] == "all" {
			continue
		}
		if i+1 < len(parts) && !strings.HasPrefix(parts[i+1], "-") {
			return parts[i+1]
		}
		if prev == "delete" && !strings.Contains(parts[i], "/") {
			// "delete <type>" with no name after it (e.g. --all): no
			// resource name to extract.
			break
		}
		return parts[i]
	}

	if env == kubectlctx.EnvProduction {
		return "production"
	}

	if len(parts) > 1 {
		return parts[1]
	}
	return "confirm"
}

// Action is the outcome of presenting a confirmation prompt to the user.
type Action int

const (
	ActionPending Action = iota
	ActionConfirmed
	ActionCancelled
	ActionEdit
)

// Prompt is the state of one confirmation interaction.
type Prompt struct {
	Command        string
	Risk           tools.RiskLevel
	Environment    kubectlctx.EnvironmentType
	Mode           Mode
	ExpectedToken  string
	Action         Action
}

// NewPrompt builds a Prompt for the given command/risk/environment.
func NewPrompt(command string, risk tools.RiskLevel, env kubectlctx.EnvironmentType) *Prompt {
	mode := ModeFor(risk, env)
	var expected string
	if mode == ModeTyped {
		expected = ExpectedToken(command, env)
	}
	return &Prompt{
		Command:       command,
		Risk:          risk,
		Environment:   env,
		Mode:          mode,
		ExpectedToken: expected,
		Action:        ActionPending,
	}
}

// Resolve applies one line of user input (already trimmed of its trailing
// newline) to the prompt's confirmation mode and reports whether the
// prompt should close. Typed mode clears the input buffer on mismatch,
// matching the reference modal's retry behavior.
func (p *Prompt) Resolve(input string) (closed bool) {
	switch p.Mode {
	case ModeNone:
		p.Action = ActionConfirmed
		return true
	case ModeYesNo:
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
			p.Action = ActionConfirmed
			return true
		case "e", "edit":
			p.Action = ActionEdit
			return true
		default:
			p.Action = ActionCancelled
			return true
		}
	case ModeTyped:
		if input == p.ExpectedToken {
			p.Action = ActionConfirmed
			return true
		}
		p.Action = ActionPending
		return false
	default:
		p.Action = ActionCancelled
		return true
	}
}
