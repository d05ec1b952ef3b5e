package usecase

import (
	"context"
	"log"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/gh-retest/internal/domain"
	"github.com/naka-gawa/gh-retest/internal/gateway"
)

// StatusReporter is the use case behind the status command. It assembles a
// report over the workflow runs of a pull request's head commit.
type StatusReporter struct {
	client gateway.Client
	logger *log.Logger
}

// NewStatusReporter creates a new StatusReporter instance.
func NewStatusReporter(client gateway.Client, logger *log.Logger) *StatusReporter {
	return &StatusReporter{
		client: client,
		logger: logger,
	}
}

// Report fetches the pull request and its checks rollup concurrently, then
// lists the workflow runs for the head commit and aggregates them.
func (s *StatusReporter) Report(ctx context.Context, owner, repo string, number int) (*domain.PRStatus, error) {
	s.logger.Println("Usecase: Building pull request status report...")

	var summary *domain.PullRequestSummary
	var rollup string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		summary, err = s.client.FetchPullRequest(egCtx, owner, repo, number)
		return err
	})
	eg.Go(func() error {
		var err error
		rollup, err = s.client.FetchPRChecksRollup(egCtx, owner, repo, number)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	runs, err := s.client.ListWorkflowRuns(ctx, owner, repo, summary.HeadCommitSHA)
	if err != nil {
		return nil, err
	}

	report := &domain.PRStatus{
		Title:         summary.Title,
		HeadCommitSHA: summary.HeadCommitSHA,
		ChecksRollup:  rollup,
		TotalRuns:     len(runs),
	}

	var durations []float64
	for _, run := range runs {
		if run.Conclusion == "" {
			// Still in progress; no conclusion and no final duration yet.
			continue
		}
		if report.Conclusions == nil {
			report.Conclusions = make(map[string]int)
		}
		report.Conclusions[run.Conclusion]++
		if run.NeedsRerun() {
			report.RerunCandidates++
		}
		if d := run.UpdatedAt.Sub(run.CreatedAt); d > 0 {
			durations = append(durations, d.Seconds())
		}
	}

	if len(durations) > 0 {
		// Mean and Median only fail on empty input, which is guarded above.
		report.MeanRunSeconds, _ = stats.Mean(durations)
		report.MedianRunSeconds, _ = stats.Median(durations)
	}

	s.logger.Println("Usecase: Status report complete.")
	return report, nil
}
