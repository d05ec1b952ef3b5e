// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gh-retest",
	Short: "Reruns failed GitHub Actions workflow runs for a pull request.",
	Long: `gh-retest reruns the workflow runs on a pull request's head commit that
did not succeed. The retest subcommand is the GitHub Action entrypoint,
triggered by a pull request comment; the status subcommand prints a
workflow-run report for a pull request from the command line.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
