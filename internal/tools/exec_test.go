package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClassifyRisk(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    RiskLevel
	}{
		{"rm -rf is critical", "rm -rf /var/lib/data", RiskCritical},
		{"mkfs is critical", "mkfs.ext4 /dev/sdb1", RiskCritical},
		{"fork bomb is critical", ":(){ :|:& };:", RiskCritical},
		{"plain rm is high", "rm /tmp/stale.log", RiskHigh},
		{"reboot is high", "sudo reboot", RiskHigh},
		{"sudo alone is medium", "sudo systemctl restart nginx", RiskMedium},
		{"read-only command is low", "kubectl get pods -n default", RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultClassifyRisk(tt.command))
		})
	}
}

func TestDefaultShellExecute(t *testing.T) {
	result, err := DefaultShellExecute(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "hello")
	assert.True(t, result.Success())
}

func TestDefaultShellExecute_NonZeroExit(t *testing.T) {
	result, err := DefaultShellExecute(context.Background(), "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Success())
}
