package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaido-cli/kaido/internal/kubectlctx"
	"github.com/kaido-cli/kaido/internal/tools"
)

func TestModeFor(t *testing.T) {
	tests := []struct {
		name string
		risk tools.RiskLevel
		env  kubectlctx.EnvironmentType
		want Mode
	}{
		{"low is never gated", tools.RiskLow, kubectlctx.EnvProduction, ModeNone},
		{"medium always asks yes/no", tools.RiskMedium, kubectlctx.EnvDevelopment, ModeYesNo},
		{"medium in production still yes/no", tools.RiskMedium, kubectlctx.EnvProduction, ModeYesNo},
		{"high outside production asks yes/no", tools.RiskHigh, kubectlctx.EnvStaging, ModeYesNo},
		{"high in production requires typed", tools.RiskHigh, kubectlctx.EnvProduction, ModeTyped},
		{"critical always requires typed", tools.RiskCritical, kubectlctx.EnvDevelopment, ModeTyped},
		{"critical in production still typed", tools.RiskCritical, kubectlctx.EnvProduction, ModeTyped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeFor(tt.risk, tt.env))
		})
	}
}

func TestExpectedToken(t *testing.T) {
	tests := []struct {
		name    string
		command string
		env     kubectlctx.EnvironmentType
		want    string
	}{
		{
			name:    "delete pod extracts resource name",
			command: "kubectl delete pod my-app-7d9f",
			env:     kubectlctx.EnvDevelopment,
			want:    "my-app-7d9f",
		},
		{
			name:    "delete with resource/name form",
			command: "kubectl delete deployment/my-app",
			env:     kubectlctx.EnvDevelopment,
			want:    "deployment/my-app",
		},
		{
			name:    "drain extracts node name",
			command: "kubectl drain node-3 --ignore-daemonsets",
			env:     kubectlctx.EnvDevelopment,
			want:    "node-3",
		},
		{
			name:    "delete --all falls back to production token in prod",
			command: "kubectl delete pods --all",
			env:     kubectlctx.EnvProduction,
			want:    "production",
		},
		{
			name:    "no delete/drain verb falls back to second word",
			command: "kubectl scale deployment my-app --replicas=3",
			env:     kubectlctx.EnvDevelopment,
			want:    "scale",
		},
		{
			name:    "single word command falls back to literal confirm",
			command: "reboot",
			env:     kubectlctx.EnvDevelopment,
			want:    "confirm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpectedToken(tt.command, tt.env))
		})
	}
}

func TestPromptResolve_YesNo(t *testing.T) {
	p := NewPrompt("kubectl rollout restart deployment/api", tools.RiskMedium, kubectlctx.EnvDevelopment)
	assert.Equal(t, ModeYesNo, p.Mode)

	closed := p.Resolve("y")
	assert.True(t, closed)
	assert.Equal(t, ActionConfirmed, p.Action)
}

func TestPromptResolve_YesNoEdit(t *testing.T) {
	p := NewPrompt("kubectl rollout restart deployment/api", tools.RiskMedium, kubectlctx.EnvDevelopment)
	closed := p.Resolve("e")
	assert.True(t, closed)
	assert.Equal(t, ActionEdit, p.Action)
}

func TestPromptResolve_YesNoDefaultsToCancel(t *testing.T) {
	p := NewPrompt("kubectl rollout restart deployment/api", tools.RiskMedium, kubectlctx.EnvDevelopment)
	closed := p.Resolve("")
	assert.True(t, closed)
	assert.Equal(t, ActionCancelled, p.Action)
}

func TestPromptResolve_TypedMismatchStaysOpen(t *testing.T) {
	p := NewPrompt("kubectl delete namespace billing", tools.RiskCritical, kubectlctx.EnvProduction)
	assert.Equal(t, ModeTyped, p.Mode)
	assert.Equal(t, "billing", p.ExpectedToken)

	closed := p.Resolve("wrong")
	assert.False(t, closed)
	assert.Equal(t, ActionPending, p.Action)

	closed = p.Resolve("billing")
	assert.True(t, closed)
	assert.Equal(t, ActionConfirmed, p.Action)
}

func TestPromptResolve_ModeNoneAutoConfirms(t *testing.T) {
	p := NewPrompt("kubectl get pods", tools.RiskLow, kubectlctx.EnvProduction)
	closed := p.Resolve("")
	assert.True(t, closed)
	assert.Equal(t, ActionConfirmed, p.Action)
}
