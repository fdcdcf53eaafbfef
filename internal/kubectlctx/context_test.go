package kubectlctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentFromContext(t *testing.T) {
	tests := []struct {
		name        string
		contextName string
		want        EnvironmentType
	}{
		{"production cluster", "prod-us-east-1", EnvProduction},
		{"abbreviated production", "my-production-cluster", EnvProduction},
		{"staging cluster", "staging-eu", EnvStaging},
		{"dev cluster", "dev-local", EnvDevelopment},
		{"unrecognized name", "minikube", EnvUnknown},
		{"production wins over dev substring in a contrived name", "prod-devops", EnvProduction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvironmentFromContext(tt.contextName))
		})
	}
}

func TestEnvironmentTypeString(t *testing.T) {
	assert.Equal(t, "development", EnvDevelopment.String())
	assert.Equal(t, "staging", EnvStaging.String())
	assert.Equal(t, "production", EnvProduction.String())
	assert.Equal(t, "unknown", EnvUnknown.String())
}
