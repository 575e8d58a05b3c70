package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasnoah/buildfix/internal/config"
	"github.com/lucasnoah/buildfix/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past pipeline runs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.History.Disabled || cfg.History.Path == "" {
			return fmt.Errorf("run history is disabled in the configuration")
		}

		db, cleanup, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 1 {
			return printRunStages(cmd, db, args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := db.ListRuns(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs found.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-5s %-20s %-8s %-12s %-10s %s\n", "ID", "STARTED", "VERDICT", "NODE", "NPM", "FLAGS")
		fmt.Fprintln(w, strings.Repeat("-", 72))
		for _, r := range runs {
			fmt.Fprintf(w, "%-5d %-20s %-8s %-12s %-10s %s\n",
				r.ID, r.StartedAt, verdictLabel(r.Verdict), r.NodeVersion, r.NPMVersion, flagLabel(r))
		}
		return nil
	},
}

func printRunStages(cmd *cobra.Command, db *history.DB, arg string) error {
	runID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", arg)
	}

	stages, err := db.RunStages(runID)
	if err != nil {
		return err
	}
	if len(stages) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stages recorded for run %d.\n", runID)
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-12s %-8s %-10s %s\n", "STAGE", "RESULT", "DURATION", "DETAIL")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, s := range stages {
		result := "failed"
		switch {
		case s.Skipped:
			result = "skipped"
		case s.Passed:
			result = "passed"
		}
		fmt.Fprintf(w, "%-12s %-8s %-10s %s\n", s.Stage, result, fmt.Sprintf("%dms", s.DurationMs), s.Detail)
	}
	return nil
}

func verdictLabel(v *bool) string {
	switch {
	case v == nil:
		return "pending"
	case *v:
		return "ready"
	default:
		return "failed"
	}
}

func flagLabel(r history.Run) string {
	var flags []string
	if r.FixOnly {
		flags = append(flags, "fix-only")
	}
	if r.SkipInstall {
		flags = append(flags, "skip-install")
	}
	return strings.Join(flags, ",")
}

func openHistory(cfg *config.Config) (*history.DB, func(), error) {
	db, err := history.Open(historyPath(cfg))
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
}
