package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var (
	projectDir string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "buildfix",
	Short: "buildfix — build-and-fix pipeline for the air quality monitoring app",
	Long: `buildfix drives the build pipeline for the air quality monitoring app:
it checks the Node.js toolchain, installs backend and frontend dependencies,
repairs the TypeScript configuration, builds the frontend with one automated
remediation retry, and writes a plain-text build report.

Run history is stored in .buildfix/history.db (SQLite) inside the project.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "project root directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to buildfix config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
