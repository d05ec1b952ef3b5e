// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/naka-gawa/gh-retest/internal/gateway"
	"github.com/naka-gawa/gh-retest/internal/usecase"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints a workflow-run status report for a pull request as JSON",
	Long: `Fetches the pull request, the status-check rollup of its head commit, and
the workflow runs for that commit, then prints an aggregated report
(per-conclusion counts, rerun candidates, run duration statistics) in JSON
format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		// Get other flags.
		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")
		number, _ := cmd.Flags().GetInt("pr")
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		client, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		reporter := usecase.NewStatusReporter(client, logger)

		report, err := reporter.Report(ctx, owner, repo, number)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build status report: %v\n", err)
			os.Exit(1)
		}

		// Marshal the report into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
			os.Exit(1)
		}

		// Print the final JSON to standard output.
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringP("owner", "o", "", "Repository owner (required)")
	statusCmd.Flags().StringP("repo", "r", "", "Repository name (required)")
	statusCmd.Flags().IntP("pr", "p", 0, "Pull request number (required)")
	statusCmd.MarkFlagRequired("owner")
	statusCmd.MarkFlagRequired("repo")
	statusCmd.MarkFlagRequired("pr")
}
