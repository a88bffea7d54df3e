package domain

// RunCounters accumulates the outcome of a run. It is mutated in place while iterating.
type RunCounters struct {
	Notified        int
	Archived        int
	Scanned         int
	SkippedByCap    int
	NotifyFailures  int
	ArchiveFailures int
}

// Summary is the single structured record emitted at the end of a run.
type Summary struct {
	Organization        string  `json:"organization"`
	RepositoriesScanned int     `json:"repositories_scanned"`
	Notified            int     `json:"notified"`
	Archived            int     `json:"archived"`
	SkippedByCap        int     `json:"skipped_by_cap"`
	NotifyFailures      int     `json:"notify_failures"`
	ArchiveFailures     int     `json:"archive_failures"`
	MedianInactiveDays  float64 `json:"median_inactive_days"`
	MaxInactiveDays     float64 `json:"max_inactive_days"`
	DryRun              bool    `json:"dry_run"`
	Message             string  `json:"message"`
}
