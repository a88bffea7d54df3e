package usecase

import (
	"fmt"
	"log/slog"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// Reporter accumulates the outcome of a run and renders its summary.
type Reporter struct {
	counters     domain.RunCounters
	inactiveDays stats.Float64Data
	logger       *slog.Logger
}

// NewReporter creates a new Reporter instance.
func NewReporter(logger *slog.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Observe records one evaluated repository.
func (r *Reporter) Observe(decision domain.Decision) {
	r.counters.Scanned++
	r.inactiveDays = append(r.inactiveDays, float64(decision.InactiveDays))
	if decision.Reason == domain.ReasonCapReached {
		r.counters.SkippedByCap++
	}
}

func (r *Reporter) Notified()      { r.counters.Notified++ }
func (r *Reporter) Archived()      { r.counters.Archived++ }
func (r *Reporter) NotifyFailed()  { r.counters.NotifyFailures++ }
func (r *Reporter) ArchiveFailed() { r.counters.ArchiveFailures++ }

// Counters returns a copy of the counters accumulated so far.
func (r *Reporter) Counters() domain.RunCounters {
	return r.counters
}

// Summary builds the final record and logs it once.
func (r *Reporter) Summary(org string, dryRun bool) *domain.Summary {
	summary := &domain.Summary{
		Organization:        org,
		RepositoriesScanned: r.counters.Scanned,
		Notified:            r.counters.Notified,
		Archived:            r.counters.Archived,
		SkippedByCap:        r.counters.SkippedByCap,
		NotifyFailures:      r.counters.NotifyFailures,
		ArchiveFailures:     r.counters.ArchiveFailures,
		DryRun:              dryRun,
		Message: fmt.Sprintf("Script completed. %d repositories checked. %d issues created. %d repositories archived.",
			r.counters.Scanned, r.counters.Notified, r.counters.Archived),
	}

	// Both return ErrEmptyInput when nothing was scanned; zero is the right answer then.
	if median, err := r.inactiveDays.Median(); err == nil {
		summary.MedianInactiveDays = median
	}
	if maximum, err := r.inactiveDays.Max(); err == nil {
		summary.MaxInactiveDays = maximum
	}

	r.logger.Info("run completed",
		"org", org,
		"scanned", summary.RepositoriesScanned,
		"notified", summary.Notified,
		"archived", summary.Archived,
		"skipped_by_cap", summary.SkippedByCap,
		"notify_failures", summary.NotifyFailures,
		"archive_failures", summary.ArchiveFailures,
		"median_inactive_days", summary.MedianInactiveDays,
		"max_inactive_days", summary.MaxInactiveDays,
		"dry_run", dryRun,
	)
	return summary
}
