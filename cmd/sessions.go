package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaido-cli/kaido/internal/audit"
	"github.com/kaido-cli/kaido/internal/config"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List past investigation sessions",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "maximum sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := audit.OpenSessionLogger(filepath.Join(filepath.Dir(cfg.Audit.DatabasePath), "agent_audit.db"))
	if err != nil {
		return err
	}
	defer logger.Close()

	sessions, err := logger.ListSessions(sessionsLimit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions recorded yet")
		return nil
	}

	for _, s := range sessions {
		started := time.Unix(s.StartTime, 0).Format(time.RFC3339)
		fmt.Printf("%-36s  %-20s  %-9s  steps=%-3d actions=%-3d  %s\n",
			s.SessionID, started, s.Status, s.TotalSteps, s.TotalActions, truncateForDisplay(s.TaskDescription, 60))
	}
	return nil
}

func truncateForDisplay(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
