package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kaido-cli/kaido/internal/tools"
)

// UserAction records what the operator did with a translated command.
type UserAction string

const (
	ActionExecuted  UserAction = "EXECUTED"
	ActionCancelled UserAction = "CANCELLED"
	ActionEdited    UserAction = "EDITED"
)

// CommandEntry is one row to be persisted to the one-shot command audit log.
type CommandEntry struct {
	Timestamp             time.Time
	UserID                string
	NaturalLanguageInput   string
	Command                string
	OriginalCommand         string // pre-edit AI-generated command, empty if unedited
	ConfidenceScore         int
	Risk                    tools.RiskLevel
	Environment             string
	Cluster                 string
	Namespace               string
	Result                  *tools.ExecutionResult
	UserAction              UserAction
}

// CommandLogger records individually-executed translated commands, distinct
// from SessionLogger's multi-step agent investigations. Grounded on
// original_source/src/audit/schema.rs, extended from the Rust original's
// three-tier risk_level CHECK constraint to four tiers (adds CRITICAL — see
// DESIGN.md).
type CommandLogger struct {
	mu sync.Mutex
	db *sql.DB
}

const commandSchema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	user_id TEXT NOT NULL,
	natural_language_input TEXT NOT NULL,
	kubectl_command TEXT NOT NULL,
	original_command TEXT,
	confidence_score INTEGER,
	risk_level TEXT NOT NULL CHECK(risk_level IN ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL')),
	environment TEXT NOT NULL,
	cluster TEXT NOT NULL,
	namespace TEXT,
	exit_code INTEGER,
	stdout TEXT,
	stderr TEXT,
	execution_duration_ms INTEGER,
	user_action TEXT NOT NULL CHECK(user_action IN ('EXECUTED', 'CANCELLED', 'EDITED')),
	created_at TEXT NOT NULL DEFAULT (datetime('now', 'utc'))
);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_audit_log_environment ON audit_log(environment);
CREATE INDEX IF NOT EXISTS idx_audit_log_user_action ON audit_log(user_action);
CREATE INDEX IF NOT EXISTS idx_audit_log_env_timestamp ON audit_log(environment, timestamp DESC);

CREATE VIEW IF NOT EXISTS v_today_commands AS
SELECT id, datetime(timestamp, 'unixepoch') as executed_at, user_id, natural_language_input,
       kubectl_command, risk_level, environment, user_action, exit_code
FROM audit_log WHERE timestamp >= strftime('%s', 'now', 'start of day') ORDER BY timestamp DESC;

CREATE VIEW IF NOT EXISTS v_last_week_commands AS
SELECT id, datetime(timestamp, 'unixepoch') as executed_at, user_id, natural_language_input,
       kubectl_command, risk_level, environment, user_action, exit_code
FROM audit_log WHERE timestamp >= strftime('%s', 'now', '-7 days') ORDER BY timestamp DESC;

CREATE VIEW IF NOT EXISTS v_production_commands AS
SELECT id, datetime(timestamp, 'unixepoch') as executed_at, user_id, natural_language_input,
       kubectl_command, risk_level, environment, user_action, exit_code
FROM audit_log WHERE environment LIKE '%prod%' OR environment LIKE '%production%' ORDER BY timestamp DESC;
`

// OpenCommandLogger opens (creating if necessary) the command audit
// database at path.
func OpenCommandLogger(path string) (*CommandLogger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open command audit log: %w", err)
	}
	if _, err := db.Exec(commandSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init command audit schema: %w", err)
	}
	return &CommandLogger{db: db}, nil
}

func (l *CommandLogger) Close() error { return l.db.Close() }

// Log inserts one command-audit row.
func (l *CommandLogger) Log(e CommandEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var originalCommand sql.NullString
	if e.OriginalCommand != "" {
		originalCommand = sql.NullString{String: e.OriginalCommand, Valid: true}
	}

	var exitCode sql.NullInt64
	var stdout, stderr sql.NullString
	var durationMs sql.NullInt64
	if e.Result != nil {
		exitCode = sql.NullInt64{Int64: int64(e.Result.ExitCode), Valid: true}
		stdout = sql.NullString{String: e.Result.Stdout, Valid: true}
		stderr = sql.NullString{String: e.Result.Stderr, Valid: true}
		durationMs = sql.NullInt64{Int64: e.Result.Duration.Milliseconds(), Valid: true}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := l.db.Exec(`
		INSERT INTO audit_log
			(timestamp, user_id, natural_language_input, kubectl_command, original_command,
			 confidence_score, risk_level, environment, cluster, namespace,
			 exit_code, stdout, stderr, execution_duration_ms, user_action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Unix(), e.UserID, e.NaturalLanguageInput, e.Command, originalCommand,
		e.ConfidenceScore, e.Risk.String(), e.Environment, e.Cluster, e.Namespace,
		exitCode, stdout, stderr, durationMs, string(e.UserAction))
	if err != nil {
		return fmt.Errorf("failed to write command audit entry: %w", err)
	}
	return nil
}

// HistoryRow is one row returned by a history query view.
type HistoryRow struct {
	ID                   int64
	ExecutedAt           string
	UserID               string
	NaturalLanguageInput string
	Command              string
	RiskLevel            string
	Environment          string
	UserAction           string
	ExitCode             sql.NullInt64
}

// View names the three canned history queries spec §6 exposes.
type View string

const (
	ViewToday      View = "v_today_commands"
	ViewLastWeek   View = "v_last_week_commands"
	ViewProduction View = "v_production_commands"
)

// Query runs one of the canned views, most recent first, limited to limit
// rows.
func (l *CommandLogger) Query(view View, limit int) ([]HistoryRow, error) {
	rows, err := l.db.Query(fmt.Sprintf(`SELECT id, executed_at, user_id, natural_language_input, kubectl_command, risk_level, environment, user_action, exit_code FROM %s LIMIT ?`, view), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", view, err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var r HistoryRow
		if err := rows.Scan(&r.ID, &r.ExecutedAt, &r.UserID, &r.NaturalLanguageInput, &r.Command, &r.RiskLevel, &r.Environment, &r.UserAction, &r.ExitCode); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
