package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lucasnoah/buildfix/internal/command"
	"github.com/lucasnoah/buildfix/internal/config"
	"github.com/lucasnoah/buildfix/internal/pipeline"
	"github.com/lucasnoah/buildfix/internal/report"
	"github.com/lucasnoah/buildfix/internal/toolchain"
	"github.com/lucasnoah/buildfix/internal/ui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full build pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipInstall, _ := cmd.Flags().GetBool("skip-install")
		fixOnly, _ := cmd.Flags().GetBool("fix-only")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, ui.Banner(cfg.Project))

		eng, cleanup := newEngine(cmd, cfg)
		defer cleanup()

		res, err := eng.Run(cmd.Context(), pipeline.RunOpts{
			SkipInstall: skipInstall,
			FixOnly:     fixOnly,
			Verbose:     verbose,
		})
		cmd.SilenceUsage = true

		fmt.Fprintf(w, "\n%s\n", ui.Header("SUMMARY"))
		for _, st := range res.Stages {
			fmt.Fprintf(w, "  %s\n", ui.StatusLine(st.Stage, st.Passed, st.Skipped))
		}
		fmt.Fprintln(w)

		if errors.Is(err, pipeline.ErrEnvironment) {
			fmt.Fprintln(w, ui.Failure("Environment check failed. Install Node.js and npm, then retry."))
			return err
		}
		if err != nil {
			return err
		}
		if !res.Verdict {
			fmt.Fprintln(w, ui.Failure("Build completed with issues. See "+cfg.Report.File+" for details."))
			return fmt.Errorf("build incomplete")
		}
		fmt.Fprintln(w, ui.Success("Build completed successfully! Application is ready to run."))
		return nil
	},
}

// newEngine wires a pipeline engine for the current project. History is
// best-effort: a broken database warns and the build proceeds without it.
func newEngine(cmd *cobra.Command, cfg *config.Config) (*pipeline.Engine, func()) {
	run := &command.Exec{}
	prober := toolchain.NewProber(run, cfg.Toolchain.MinNodeMajor)
	rep := report.New(projectDir, cfg, prober)

	eng := pipeline.NewEngine(projectDir, cfg, run, prober, rep)
	eng.SetProgress(cmd.OutOrStdout())

	cleanup := func() {}
	if !cfg.History.Disabled && cfg.History.Path != "" {
		db, dbCleanup, err := openHistory(cfg)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn("run history unavailable: "+err.Error()))
		} else {
			eng.SetHistory(db)
			cleanup = dbCleanup
		}
	}
	return eng, cleanup
}

func historyPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.History.Path) {
		return cfg.History.Path
	}
	return filepath.Join(projectDir, cfg.History.Path)
}

func init() {
	runCmd.Flags().Bool("skip-install", false, "Skip dependency installation")
	runCmd.Flags().Bool("fix-only", false, "Only run fixes, skip the build")
	runCmd.Flags().Bool("verbose", false, "Stream install and build output")
}
