package audit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaido-cli/kaido/internal/tools"
)

func openTestCommandLogger(t *testing.T) *CommandLogger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	logger, err := OpenCommandLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestCommandLogger_LogAndQuery(t *testing.T) {
	logger := openTestCommandLogger(t)

	entry := CommandEntry{
		UserID:               "alice",
		NaturalLanguageInput: "why is the api deployment crashing",
		Command:              "kubectl logs deploy/api --previous",
		Risk:                 tools.RiskLow,
		Environment:          "production",
		Cluster:              "prod-us-east-1",
		Namespace:            "api",
		UserAction:           ActionExecuted,
		Result:               &tools.ExecutionResult{ExitCode: 0, Stdout: "panic: nil pointer"},
	}
	require.NoError(t, logger.Log(entry))

	rows, err := logger.Query(ViewToday, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].UserID)
	assert.Equal(t, "kubectl logs deploy/api --previous", rows[0].Command)
	assert.Equal(t, "LOW", rows[0].RiskLevel)
	assert.True(t, rows[0].ExitCode.Valid)
	assert.EqualValues(t, 0, rows[0].ExitCode.Int64)
}

func TestCommandLogger_ProductionView(t *testing.T) {
	logger := openTestCommandLogger(t)

	require.NoError(t, logger.Log(CommandEntry{
		UserID: "bob", Command: "kubectl get pods", Risk: tools.RiskLow,
		Environment: "production", Cluster: "prod-1", UserAction: ActionExecuted,
	}))
	require.NoError(t, logger.Log(CommandEntry{
		UserID: "bob", Command: "kubectl get pods", Risk: tools.RiskLow,
		Environment: "development", Cluster: "dev-1", UserAction: ActionExecuted,
	}))

	rows, err := logger.Query(ViewProduction, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "production", rows[0].Environment)
}

func TestCommandLogger_CancelledActionRecorded(t *testing.T) {
	logger := openTestCommandLogger(t)

	require.NoError(t, logger.Log(CommandEntry{
		UserID: "carol", Command: "kubectl delete namespace billing", Risk: tools.RiskCritical,
		Environment: "production", Cluster: "prod-1", UserAction: ActionCancelled,
	}))

	rows, err := logger.Query(ViewToday, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CANCELLED", rows[0].UserAction)
	assert.False(t, rows[0].ExitCode.Valid)
}
