// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// EventIssueComment is the only GitHub event kind the retest handler accepts.
const EventIssueComment = "issue_comment"

// Workflow run conclusions as reported by the GitHub Actions API.
const (
	ConclusionSuccess   = "success"
	ConclusionFailure   = "failure"
	ConclusionTimedOut  = "timed_out"
	ConclusionCancelled = "cancelled"
)

// EventContext describes the single GitHub event an invocation acts on.
// It is built once from the Actions runtime environment and never mutated.
type EventContext struct {
	EventName          string
	CommentBody        string
	IssueNumber        int
	HasPullRequestLink bool
	RepoOwner          string
	RepoName           string
}

// PullRequestSummary is the slice of a pull request the handler needs:
// its title (for logging) and the head commit the workflow runs belong to.
type PullRequestSummary struct {
	Title         string
	HeadCommitSHA string
}

// WorkflowRun is a single GitHub Actions workflow run for a commit.
type WorkflowRun struct {
	ID         int64
	Name       string
	RunNumber  int
	Conclusion string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NeedsRerun reports whether the run finished in a state worth retrying.
// Runs that succeeded, are still in progress, or were skipped are left alone.
func (r WorkflowRun) NeedsRerun() bool {
	switch r.Conclusion {
	case ConclusionFailure, ConclusionTimedOut, ConclusionCancelled:
		return true
	}
	return false
}

// RerunOutcome records the result of one rerun request. Err is nil when the
// API accepted the rerun.
type RerunOutcome struct {
	Run WorkflowRun
	Err error
}

// RetestResult is the aggregate outcome of one handler invocation.
// Rerun counts only the reruns the API accepted; Outcomes keeps the
// per-run results in the order the runs were attempted.
type RetestResult struct {
	Rerun    int
	Outcomes []RerunOutcome
}
