package domain

// PRStatus is the report produced by the status command for one pull request.
type PRStatus struct {
	Title            string         `json:"title"`
	HeadCommitSHA    string         `json:"head_commit_sha"`
	ChecksRollup     string         `json:"checks_rollup,omitempty"`
	TotalRuns        int            `json:"total_runs"`
	Conclusions      map[string]int `json:"conclusions,omitempty"`
	RerunCandidates  int            `json:"rerun_candidates"`
	MeanRunSeconds   float64        `json:"mean_run_seconds,omitempty"`
	MedianRunSeconds float64        `json:"median_run_seconds,omitempty"`
}
