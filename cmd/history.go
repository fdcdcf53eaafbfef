package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kaido-cli/kaido/internal/audit"
	"github.com/kaido-cli/kaido/internal/config"
)

var historyView string
var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the one-shot command audit log",
	Long: `Show previously executed translated commands, filtered by one of
three canned views: today, week (last 7 days), or production.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyView, "view", "today", "view: today, week, production")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum rows to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := audit.OpenCommandLogger(filepath.Join(filepath.Dir(cfg.Audit.DatabasePath), "audit.db"))
	if err != nil {
		return err
	}
	defer logger.Close()

	var view audit.View
	switch historyView {
	case "today":
		view = audit.ViewToday
	case "week":
		view = audit.ViewLastWeek
	case "production":
		view = audit.ViewProduction
	default:
		return fmt.Errorf("unknown view %q (use today, week, or production)", historyView)
	}

	rows, err := logger.Query(view, historyLimit)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("no matching commands recorded")
		return nil
	}

	for _, r := range rows {
		fmt.Printf("%-20s  %-8s  %-10s  %-7s  %s\n", r.ExecutedAt, r.RiskLevel, r.Environment, r.UserAction, r.Command)
	}
	return nil
}
