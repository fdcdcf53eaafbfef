package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaido-cli/kaido/internal/agent"
)

func openTestSessionLogger(t *testing.T) *SessionLogger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent_audit.db")
	logger, err := OpenSessionLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestSessionLogger_FullLifecycle(t *testing.T) {
	logger := openTestSessionLogger(t)
	sessionID := NewSessionID()
	require.NotEmpty(t, sessionID)

	require.NoError(t, logger.LogSessionStart(sessionID, "crash-looping pod investigation"))

	success := true
	step := agent.Step{
		Number:    1,
		Kind:      agent.StepAction,
		Content:   "kubectl get pods",
		ToolUsed:  "kubectl",
		Success:   &success,
		Timestamp: time.Now(),
	}
	require.NoError(t, logger.LogStep(sessionID, step))

	state := &agent.State{
		Status:    agent.StatusCompleted,
		RootCause: "readiness probe misconfigured",
		Steps:     []agent.Step{step},
		StartedAt: time.Now().Add(-2 * time.Second),
	}
	require.NoError(t, logger.LogSessionEnd(sessionID, state))

	sessions, err := logger.ListSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, sessionID, sessions[0].SessionID)
	assert.Equal(t, "completed", sessions[0].Status)
	assert.Equal(t, 1, sessions[0].TotalSteps)
	assert.Equal(t, 1, sessions[0].TotalActions)
}

func TestSessionLogger_LogSessionEndWithNoSteps(t *testing.T) {
	logger := openTestSessionLogger(t)
	sessionID := NewSessionID()
	require.NoError(t, logger.LogSessionStart(sessionID, "cancelled before any step ran"))

	state := &agent.State{
		Status:    agent.StatusStopped,
		StartedAt: time.Now(),
	}
	// must not panic on an empty Steps slice.
	require.NoError(t, logger.LogSessionEnd(sessionID, state))

	sessions, err := logger.ListSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "stopped", sessions[0].Status)
	assert.Equal(t, 0, sessions[0].TotalSteps)
}

func TestSessionLogger_ListSessionsRespectsLimit(t *testing.T) {
	logger := openTestSessionLogger(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, logger.LogSessionStart(NewSessionID(), "task"))
	}

	sessions, err := logger.ListSessions(2)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
