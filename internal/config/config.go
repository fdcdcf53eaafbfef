// Package config loads and persists kaido's TOML configuration at
// ~/.kaido/config.toml. Grounded on original_source/src/config.rs for the
// section shape and defaults; the decode/encode idiom itself follows the
// pack's BurntSushi/toml usage since the teacher has no config file of its
// own (see DESIGN.md).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kaido-cli/kaido/internal/llm"
)

// AIConfig carries the selected provider and its per-provider settings.
type AIConfig struct {
	Provider       llm.Provider `toml:"provider"`
	APIKey         string       `toml:"api_key"`
	Model          string       `toml:"model"`
	BaseURL        string       `toml:"base_url"`
	TimeoutSeconds uint64       `toml:"timeout_seconds"`
	GeminiAPIKey   string       `toml:"gemini_api_key"`
	OllamaBaseURL  string       `toml:"ollama_base_url"`
}

func defaultAIConfig() AIConfig {
	return AIConfig{
		Provider:       llm.ProviderAuto,
		Model:          "gpt-4o",
		BaseURL:        "https://api.openai.com/v1",
		TimeoutSeconds: 10,
	}
}

// AuditConfig points at the audit database and how long rows survive.
type AuditConfig struct {
	DatabasePath  string `toml:"database_path"`
	RetentionDays uint32 `toml:"retention_days"`
}

func defaultAuditConfig(home string) AuditConfig {
	return AuditConfig{
		DatabasePath:  filepath.Join(home, ".kaido", "audit.db"),
		RetentionDays: 90,
	}
}

// SafetyConfig holds the safety settings persisted in config.toml. The
// confirmation gate (internal/confirm) does not read them: its matrix is
// fixed regardless of these values.
type SafetyConfig struct {
	ConfirmDestructive                    bool `toml:"confirm_destructive"`
	RequireTypedConfirmationInProduction bool `toml:"require_typed_confirmation_in_production"`
	LogCommands                           bool `toml:"log_commands"`
}

func defaultSafetyConfig() SafetyConfig {
	return SafetyConfig{
		ConfirmDestructive:                    true,
		RequireTypedConfirmationInProduction: true,
		LogCommands:                           true,
	}
}

// DisplayConfig holds the REPL rendering settings persisted in
// config.toml; the coach REPL does not read them.
type DisplayConfig struct {
	ShowConfidenceThreshold uint8 `toml:"show_confidence_threshold"`
	ShowReasoning           bool  `toml:"show_reasoning"`
}

func defaultDisplayConfig() DisplayConfig {
	return DisplayConfig{ShowConfidenceThreshold: 70, ShowReasoning: false}
}

// Config is kaido's full persisted configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	Audit   AuditConfig   `toml:"audit"`
	Safety  SafetyConfig  `toml:"safety"`
	Display DisplayConfig `toml:"display"`

	// ExplainMode toggles the agent loop's pedagogical annotation step
	// (spec §4.6 step 5). Absent from the original Rust config entirely
	// (see DESIGN.md) — added here since SPEC_FULL.md requires it be
	// configurable, defaulting to on.
	ExplainMode bool `toml:"explain_mode"`

	// LogFormat/LogLevel mirror the teacher's own slog setup
	// (cmd/serve.go's setupLogger), generalized from a server daemon to
	// this CLI's own structured logging.
	LogFormat string `toml:"log_format"`
	LogLevel  string `toml:"log_level"`
}

// Default returns the configuration used when no file exists on disk yet.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		AI:          defaultAIConfig(),
		Audit:       defaultAuditConfig(home),
		Safety:      defaultSafetyConfig(),
		Display:     defaultDisplayConfig(),
		ExplainMode: true,
		LogFormat:   "text",
		LogLevel:    "info",
	}
}

// Path returns ~/.kaido/config.toml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".kaido", "config.toml"), nil
}

// Load reads the config file, falling back to defaults section-by-section
// when the file or individual sections are absent.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config at %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to ~/.kaido/config.toml, creating the directory if
// necessary and restricting permissions to 0600 since the file may hold API
// keys.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Chmod(0o600)
}

// NewLogger builds the structured logger the rest of kaido writes through,
// following the teacher's cmd/serve.go setupLogger idiom. Records go to
// logs/kaido.log relative to the working directory (spec §6's "Log file"
// interface), with a size-based rotation writer; if the log file can't be
// opened, it falls back to stdout so a read-only or misconfigured working
// directory never prevents the CLI from starting. The returned closer
// should be deferred by the caller to flush the underlying file handle.
func NewLogger(cfg Config) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{}
	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	var writer = os.Stdout
	var closer = func() error { return nil }

	rotating, err := openRotatingFile(filepath.Join("logs", "kaido.log"), defaultLogMaxBytes)
	var handler slog.Handler
	if err == nil {
		closer = rotating.Close
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(rotating, opts)
		} else {
			handler = slog.NewTextHandler(rotating, opts)
		}
	} else if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler), closer
}
