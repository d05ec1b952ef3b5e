package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gh-retest/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := log.New(io.Discard, "", 0)

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}

	return gateway, server
}

func TestGitHubGateway_FetchPullRequest(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       *domain.PullRequestSummary
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - returns title and head commit",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/octo/hello/pulls/12", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"title": "Fix flaky test", "head": {"sha": "abc123"}}`)
			},
			expected: &domain.PullRequestSummary{Title: "Fix flaky test", HeadCommitSHA: "abc123"},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to fetch pull request octo/hello#12",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			summary, err := gateway.FetchPullRequest(context.Background(), "octo", "hello", 12)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, summary)
			}
		})
	}
}

func TestGitHubGateway_ListWorkflowRuns(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/hello/actions/runs", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("head_sha"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"total_count": 3,
			"workflow_runs": [
				{"id": 101, "name": "unit", "run_number": 7, "conclusion": "failure"},
				{"id": 102, "name": "lint", "run_number": 4, "conclusion": "success"},
				{"id": 103, "name": "e2e", "run_number": 9, "conclusion": "timed_out"}
			]
		}`)
	}

	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	runs, err := gateway.ListWorkflowRuns(context.Background(), "octo", "hello", "abc123")
	assert.NoError(t, err)
	require.Len(t, runs, 3)

	// The order of the listing response must be preserved.
	assert.Equal(t, int64(101), runs[0].ID)
	assert.Equal(t, "unit", runs[0].Name)
	assert.Equal(t, 7, runs[0].RunNumber)
	assert.Equal(t, domain.ConclusionFailure, runs[0].Conclusion)
	assert.Equal(t, int64(102), runs[1].ID)
	assert.Equal(t, int64(103), runs[2].ID)
	assert.Equal(t, domain.ConclusionTimedOut, runs[2].Conclusion)
}

func TestGitHubGateway_ListWorkflowRuns_Error(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "Internal Server Error"}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	runs, err := gateway.ListWorkflowRuns(context.Background(), "octo", "hello", "abc123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list workflow runs for commit abc123")
	assert.Nil(t, runs)
}

func TestGitHubGateway_RerunWorkflow(t *testing.T) {
	testCases := []struct {
		name           string
		statusCode     int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:       "happy path - rerun accepted",
			statusCode: http.StatusCreated,
		},
		{
			name:           "error case - rerun rejected",
			statusCode:     http.StatusForbidden,
			expectError:    true,
			expectedErrMsg: "failed to rerun workflow run 42",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/repos/octo/hello/actions/runs/42/rerun", r.URL.Path)
				w.WriteHeader(tc.statusCode)
				if tc.expectError {
					fmt.Fprint(w, `{"message": "Forbidden"}`)
				}
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			err := gateway.RerunWorkflow(context.Background(), "octo", "hello", 42)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGitHubGateway_FetchPRChecksRollup(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expected       string
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:         "happy path - returns the rollup state",
			responseBody: `{"data":{"repository":{"pullRequest":{"commits":{"nodes":[{"commit":{"statusCheckRollup":{"state":"FAILURE"}}}]}}}}}`,
			expected:     "FAILURE",
		},
		{
			name:         "no status checks - returns empty state",
			responseBody: `{"data":{"repository":{"pullRequest":{"commits":{"nodes":[]}}}}}`,
			expected:     "",
		},
		{
			name:           "error case - GraphQL errors",
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "pullRequest")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			state, err := gateway.FetchPRChecksRollup(context.Background(), "octo", "hello", 12)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, state)
			}
		})
	}
}
