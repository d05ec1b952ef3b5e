// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-retest/internal/actions"
	"github.com/naka-gawa/gh-retest/internal/gateway"
	"github.com/naka-gawa/gh-retest/internal/usecase"
)

var retestCmd = &cobra.Command{
	Use:   "retest",
	Short: "Reruns non-successful workflow runs when a PR comment matches the trigger phrase",
	Long: `Entrypoint for the issue_comment GitHub Action. Reads the event from the
Actions runtime environment, reruns every failed, timed out, or cancelled
workflow run on the pull request's head commit, and emits the number of
accepted reruns as the rerun-count output.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		action := githubactions.New()

		// The github-token input is preferred; GITHUB_TOKEN is the
		// fallback for running outside an action step.
		token := action.GetInput("github-token")
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		if token == "" {
			action.Fatalf("No GitHub token provided. Set the github-token input or the GITHUB_TOKEN environment variable.")
			return
		}

		event, err := actions.LoadContext(action)
		if err != nil {
			action.Fatalf("%v", err)
			return
		}

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		// Inject dependencies and run the main business logic.
		client, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			action.Fatalf("Failed to create GitHub gateway: %v", err)
			return
		}
		retester := usecase.NewRetester(client, action, action.GetInput("trigger-phrase"))

		result, err := retester.Run(ctx, *event)
		if err != nil {
			action.Fatalf("%v", err)
			return
		}

		action.SetOutput("rerun-count", strconv.Itoa(result.Rerun))
	},
}

func init() {
	rootCmd.AddCommand(retestCmd)
}
