package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaido-cli/kaido/internal/llm"
)

// NetworkTool translates natural-language requests into network-diagnostic
// and firewall invocations (ss/netstat/lsof/ip/iptables/ufw/dig). Risk
// table grounded on original_source/src/tools/network.rs, including its
// default-to-Medium rule for unrecognized commands.
type NetworkTool struct{}

func NewNetworkTool() *NetworkTool { return &NetworkTool{} }

func (t *NetworkTool) Name() string { return "network" }

func (t *NetworkTool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "port") || strings.Contains(lower, "firewall") || strings.Contains(lower, "iptables") || strings.Contains(lower, "ufw"):
		return 0.9
	case strings.Contains(lower, "network") || strings.Contains(lower, "connection") || strings.Contains(lower, "dns"):
		return 0.6
	default:
		return 0.0
	}
}

func (t *NetworkTool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	prompt := fmt.Sprintf(`Translate this request into a single network-diagnostic or firewall command.
Suggested tools: ss, netstat, lsof, ip addr, ip route, ping, dig, nslookup, iptables, ufw.
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

func (t *NetworkTool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	if strings.Contains(lower, "iptables") && (strings.Contains(lower, "-f") || strings.Contains(lower, "--flush")) {
		return RiskCritical
	}
	if strings.Contains(lower, "ufw") && (strings.Contains(lower, "disable") || strings.Contains(lower, "reset")) {
		return RiskCritical
	}
	if strings.Contains(lower, "iptables") && (strings.Contains(lower, "-a") || strings.Contains(lower, "-d") || strings.Contains(lower, "-i")) {
		return RiskHigh
	}
	if strings.Contains(lower, "ufw") && (strings.Contains(lower, "allow") || strings.Contains(lower, "deny")) {
		return RiskHigh
	}
	if strings.Contains(lower, "ip link set") || strings.Contains(lower, "ifconfig") || strings.Contains(lower, "ip route add") {
		return RiskHigh
	}
	for _, verb := range []string{"netstat", "ss", "lsof", "ip addr", "ip route", "ping", "dig", "nslookup", "iptables -l", "ufw status"} {
		if strings.Contains(lower, verb) {
			return RiskLow
		}
	}
	// Unmatched network commands default to Medium, same rationale as
	// nginx/apache2: state-changing intent cannot be ruled out.
	return RiskMedium
}

func (t *NetworkTool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	return runShell(ctx, command)
}

func (t *NetworkTool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	if strings.Contains(lower, "operation not permitted") {
		return &ErrorExplanation{
			ErrorType: "Insufficient Privileges",
			Reason:    "firewall and interface commands require root privileges",
			Solutions: []Solution{
				{Description: "re-run with sudo", Risk: RiskMedium},
			},
			Source: "pattern",
		}
	}
	return nil
}
