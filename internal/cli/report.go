package cli

import (
	"encoding/json"
	"fmt"

	"github.com/lucasnoah/buildfix/internal/command"
	"github.com/lucasnoah/buildfix/internal/report"
	"github.com/lucasnoah/buildfix/internal/toolchain"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate the build report from the current project state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		prober := toolchain.NewProber(&command.Exec{}, cfg.Toolchain.MinNodeMajor)
		reporter := report.New(projectDir, cfg, prober)
		rep := reporter.Generate(cmd.Context())

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			data, _ := json.MarshalIndent(rep, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			fmt.Fprint(cmd.OutOrStdout(), rep.Render())
		}

		if err := reporter.Write(rep); err != nil {
			return err
		}
		if !rep.BuildReady {
			cmd.SilenceUsage = true
			return fmt.Errorf("build output not present")
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("format", "text", "Output format: text or json")
}
