// Package audit implements the C8 audit log: a durable record of agent
// investigation sessions (sessions+steps tables) and of one-shot executed
// commands (a single checked table with query views). Grounded on
// original_source/src/audit/{agent_logger,schema}.rs.
package audit

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kaido-cli/kaido/internal/agent"
)

// SessionLogger records complete agent investigation sessions for later
// review (spec §4.7, agent-session variant).
type SessionLogger struct {
	mu sync.Mutex
	db *sql.DB
}

const sessionSchema = `
CREATE TABLE IF NOT EXISTS agent_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	task_description TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER,
	status TEXT NOT NULL,
	total_steps INTEGER NOT NULL DEFAULT 0,
	total_actions INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER,
	root_cause TEXT,
	solution_plan TEXT,
	created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE TABLE IF NOT EXISTS agent_steps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	step_number INTEGER NOT NULL,
	step_type TEXT NOT NULL,
	content TEXT NOT NULL,
	tool_used TEXT,
	success INTEGER,
	timestamp INTEGER NOT NULL,
	FOREIGN KEY (session_id) REFERENCES agent_sessions(session_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_agent_sessions_start_time ON agent_sessions(start_time DESC);
CREATE INDEX IF NOT EXISTS idx_agent_steps_session ON agent_steps(session_id, step_number);
`

// OpenSessionLogger opens (creating if necessary) the agent-session audit
// database at path.
func OpenSessionLogger(path string) (*SessionLogger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open session audit log: %w", err)
	}
	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init session audit schema: %w", err)
	}
	return &SessionLogger{db: db}, nil
}

func (l *SessionLogger) Close() error { return l.db.Close() }

// NewSessionID mints a fresh session identifier.
func NewSessionID() string { return uuid.NewString() }

// LogSessionStart records the beginning of an investigation.
func (l *SessionLogger) LogSessionStart(sessionID, task string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`
		INSERT INTO agent_sessions (session_id, task_description, start_time, status)
		VALUES (?, ?, strftime('%s', 'now'), 'RUNNING')`,
		sessionID, task)
	if err != nil {
		return fmt.Errorf("failed to log session start: %w", err)
	}
	return nil
}

// LogStep records one step of the ReAct loop.
func (l *SessionLogger) LogStep(sessionID string, step agent.Step) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var success sql.NullInt64
	if step.Success != nil {
		v := int64(0)
		if *step.Success {
			v = 1
		}
		success = sql.NullInt64{Int64: v, Valid: true}
	}

	_, err := l.db.Exec(`
		INSERT INTO agent_steps (session_id, step_number, step_type, content, tool_used, success, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, step.Number, string(step.Kind), step.Content, step.ToolUsed, success, step.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("failed to log step: %w", err)
	}
	return nil
}

// LogSessionEnd records the terminal state of an investigation.
func (l *SessionLogger) LogSessionEnd(sessionID string, state *agent.State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	totalActions := 0
	for _, s := range state.Steps {
		if s.Kind == agent.StepAction {
			totalActions++
		}
	}

	durationMs := int64(0)
	if !state.StartedAt.IsZero() && len(state.Steps) > 0 {
		durationMs = state.Steps[len(state.Steps)-1].Timestamp.Sub(state.StartedAt).Milliseconds()
	}

	_, err := l.db.Exec(`
		UPDATE agent_sessions
		SET end_time = strftime('%s', 'now'),
		    status = ?,
		    total_steps = ?,
		    total_actions = ?,
		    duration_ms = ?,
		    root_cause = ?
		WHERE session_id = ?`,
		state.Status.String(), len(state.Steps), totalActions, durationMs, state.RootCause, sessionID)
	if err != nil {
		return fmt.Errorf("failed to log session end: %w", err)
	}
	return nil
}

// SessionSummary is one row of a sessions listing.
type SessionSummary struct {
	SessionID       string
	TaskDescription string
	StartTime       int64
	Status          string
	TotalSteps      int
	TotalActions    int
}

// ListSessions returns the most recent limit sessions, newest first.
func (l *SessionLogger) ListSessions(limit int) ([]SessionSummary, error) {
	rows, err := l.db.Query(`
		SELECT session_id, task_description, start_time, status, total_steps, total_actions
		FROM agent_sessions ORDER BY start_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.TaskDescription, &s.StartTime, &s.Status, &s.TotalSteps, &s.TotalActions); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
