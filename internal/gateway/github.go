// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/gh-retest/internal/domain"
)

// runListPageSize is the page size for the workflow run listing. Only the
// first page is requested; runs beyond it are not considered.
const runListPageSize = 100

// Client defines the behavior of a gateway for talking to GitHub on behalf
// of the retest handler and the status reporter.
type Client interface {
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequestSummary, error)
	ListWorkflowRuns(ctx context.Context, owner, repo, headSHA string) ([]domain.WorkflowRun, error)
	RerunWorkflow(ctx context.Context, owner, repo string, runID int64) error
	// FetchPRChecksRollup returns the combined status-check state of the
	// pull request's latest commit, or "" when GitHub reports none.
	FetchPRChecksRollup(ctx context.Context, owner, repo string, number int) (string, error)
}

// GitHubGateway is the concrete implementation of the Client interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// checksRollupQuery fetches the status-check rollup of the PR's last commit.
type checksRollupQuery struct {
	Repository struct {
		PullRequest struct {
			Commits struct {
				Nodes []struct {
					Commit struct {
						StatusCheckRollup struct {
							State string
						}
					}
				}
			} `graphql:"commits(last: 1)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequestSummary, error) {
	g.logger.Printf("Fetching pull request %s/%s#%d...", owner, repo, number)
	pr, _, err := g.restClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request %s/%s#%d: %w", owner, repo, number, err)
	}
	return &domain.PullRequestSummary{
		Title:         pr.GetTitle(),
		HeadCommitSHA: pr.GetHead().GetSHA(),
	}, nil
}

func (g *GitHubGateway) ListWorkflowRuns(ctx context.Context, owner, repo, headSHA string) ([]domain.WorkflowRun, error) {
	g.logger.Printf("Listing workflow runs for commit %s...", headSHA)
	opts := &github.ListWorkflowRunsOptions{
		HeadSHA:     headSHA,
		ListOptions: github.ListOptions{PerPage: runListPageSize},
	}
	result, _, err := g.restClient.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs for commit %s: %w", headSHA, err)
	}
	runs := make([]domain.WorkflowRun, 0, len(result.WorkflowRuns))
	for _, run := range result.WorkflowRuns {
		runs = append(runs, domain.WorkflowRun{
			ID:         run.GetID(),
			Name:       run.GetName(),
			RunNumber:  run.GetRunNumber(),
			Conclusion: run.GetConclusion(),
			CreatedAt:  run.GetCreatedAt().Time,
			UpdatedAt:  run.GetUpdatedAt().Time,
		})
	}
	g.logger.Printf("Found %d workflow run(s).", len(runs))
	return runs, nil
}

func (g *GitHubGateway) RerunWorkflow(ctx context.Context, owner, repo string, runID int64) error {
	if _, err := g.restClient.Actions.RerunWorkflowByID(ctx, owner, repo, runID); err != nil {
		return fmt.Errorf("failed to rerun workflow run %d: %w", runID, err)
	}
	return nil
}

// FetchPRChecksRollup uses the GraphQL API because the rollup state is not
// exposed through a single REST call.
func (g *GitHubGateway) FetchPRChecksRollup(ctx context.Context, owner, repo string, number int) (string, error) {
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	var q checksRollupQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return "", fmt.Errorf("failed to execute GraphQL query for checks rollup: %w", err)
	}
	nodes := q.Repository.PullRequest.Commits.Nodes
	if len(nodes) == 0 {
		return "", nil
	}
	return nodes[0].Commit.StatusCheckRollup.State, nil
}
