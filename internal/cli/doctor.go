package cli

import (
	"fmt"

	"github.com/lucasnoah/buildfix/internal/command"
	"github.com/lucasnoah/buildfix/internal/toolchain"
	"github.com/lucasnoah/buildfix/internal/ui"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the Node.js toolchain without building",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		prober := toolchain.NewProber(&command.Exec{}, cfg.Toolchain.MinNodeMajor)
		status, ok := prober.Probe(cmd.Context())

		w := cmd.OutOrStdout()
		if status.Node != nil {
			fmt.Fprintln(w, ui.Success("node "+status.Node.Raw))
		}
		if status.NPM != nil {
			fmt.Fprintln(w, ui.Success("npm "+status.NPM.Raw))
		}
		for _, p := range status.Problems {
			fmt.Fprintln(w, ui.Failure(p))
		}

		if !ok {
			cmd.SilenceUsage = true
			return fmt.Errorf("node.js environment is not supported")
		}
		fmt.Fprintln(w, ui.Success("Environment is ready."))
		return nil
	},
}
