// Package actions adapts the GitHub Actions runtime environment into the
// domain types the use cases consume.
package actions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-github/v62/github"
	"github.com/sethvargo/go-githubactions"

	"github.com/naka-gawa/gh-retest/internal/domain"
)

// LoadContext builds the EventContext for this invocation. The event name
// and repository coordinates come from the runner environment; for
// issue_comment events the comment body, issue number, and pull-request
// linkage are parsed from the event payload file.
func LoadContext(action *githubactions.Action) (*domain.EventContext, error) {
	ghctx, err := action.Context()
	if err != nil {
		return nil, fmt.Errorf("failed to read actions context: %w", err)
	}
	owner, repo := ghctx.Repo()
	event := &domain.EventContext{
		EventName: ghctx.EventName,
		RepoOwner: owner,
		RepoName:  repo,
	}
	if ghctx.EventName != domain.EventIssueComment || ghctx.EventPath == "" {
		// The event-kind gate rejects anything else before the payload
		// fields are ever looked at.
		return event, nil
	}

	payload, err := os.ReadFile(ghctx.EventPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload %s: %w", ghctx.EventPath, err)
	}
	var comment github.IssueCommentEvent
	if err := json.Unmarshal(payload, &comment); err != nil {
		return nil, fmt.Errorf("failed to parse issue_comment payload: %w", err)
	}
	event.CommentBody = comment.GetComment().GetBody()
	event.IssueNumber = comment.GetIssue().GetNumber()
	event.HasPullRequestLink = comment.GetIssue().IsPullRequest()
	return event, nil
}
