// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/naka-gawa/gh-retest/internal/domain"
	"github.com/naka-gawa/gh-retest/internal/gateway"
)

// DefaultTriggerPhrase is the comment text that authorizes a rerun.
const DefaultTriggerPhrase = "/retest"

// Reporter receives the human-readable log stream of an invocation.
// *githubactions.Action satisfies it directly.
type Reporter interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
}

// Retester is the use case behind the retest command. Given the event that
// triggered the action, it reruns every workflow run on the pull request's
// head commit that did not succeed.
type Retester struct {
	client        gateway.Client
	reporter      Reporter
	triggerPhrase string
}

// NewRetester creates a new Retester instance. An empty triggerPhrase
// selects the default.
func NewRetester(client gateway.Client, reporter Reporter, triggerPhrase string) *Retester {
	if triggerPhrase == "" {
		triggerPhrase = DefaultTriggerPhrase
	}
	return &Retester{
		client:        client,
		reporter:      reporter,
		triggerPhrase: triggerPhrase,
	}
}

// Run executes the gate, fetch, filter, and rerun sequence for one event.
// Skip conditions (comment not on a PR, phrase mismatch, nothing to rerun)
// return a zero-count result without error; only the wrong event kind and
// failures of the PR fetch or run listing surface as errors. A failed rerun
// request is reported as a warning and never aborts the remaining reruns.
func (r *Retester) Run(ctx context.Context, event domain.EventContext) (*domain.RetestResult, error) {
	if event.EventName != domain.EventIssueComment {
		return nil, fmt.Errorf("This action only works with issue_comment events. Current event: %s", event.EventName)
	}
	if !event.HasPullRequestLink {
		r.reporter.Infof("Comment is not on a pull request. Skipping.")
		return &domain.RetestResult{}, nil
	}
	body := strings.TrimSpace(event.CommentBody)
	if body != r.triggerPhrase {
		r.reporter.Infof("Comment body %q does not match trigger phrase %q. Skipping.", body, r.triggerPhrase)
		return &domain.RetestResult{}, nil
	}

	pr, err := r.client.FetchPullRequest(ctx, event.RepoOwner, event.RepoName, event.IssueNumber)
	if err != nil {
		return nil, err
	}
	r.reporter.Infof("Pull request %q head commit: %s", pr.Title, pr.HeadCommitSHA)

	runs, err := r.client.ListWorkflowRuns(ctx, event.RepoOwner, event.RepoName, pr.HeadCommitSHA)
	if err != nil {
		return nil, err
	}

	var candidates []domain.WorkflowRun
	for _, run := range runs {
		if run.NeedsRerun() {
			candidates = append(candidates, run)
		}
	}
	if len(candidates) == 0 {
		r.reporter.Infof("No failed workflow runs found to rerun.")
		return &domain.RetestResult{}, nil
	}

	result := &domain.RetestResult{}
	for _, run := range candidates {
		if err := r.client.RerunWorkflow(ctx, event.RepoOwner, event.RepoName, run.ID); err != nil {
			r.reporter.Warningf("Failed to rerun workflow %q (id %d): %v", run.Name, run.ID, err)
			result.Outcomes = append(result.Outcomes, domain.RerunOutcome{Run: run, Err: err})
			continue
		}
		r.reporter.Infof("Triggered rerun of workflow %q (id %d, run #%d)", run.Name, run.ID, run.RunNumber)
		result.Rerun++
		result.Outcomes = append(result.Outcomes, domain.RerunOutcome{Run: run})
	}
	r.reporter.Infof("Successfully triggered %d workflow rerun(s).", result.Rerun)
	return result, nil
}
