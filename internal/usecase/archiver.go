package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naka-gawa/github-archiver/internal/domain"
	"github.com/naka-gawa/github-archiver/internal/gateway"
)

// Archiver is the use case for one housekeeping pass over an organization.
// Repositories are evaluated and mutated strictly one at a time.
type Archiver struct {
	gateway gateway.Gateway
	logger  *slog.Logger
	dryRun  bool
}

// NewArchiver creates a new Archiver instance. With dryRun set, decisions
// are made and counted but no issue is opened and nothing is archived.
func NewArchiver(gw gateway.Gateway, logger *slog.Logger, dryRun bool) *Archiver {
	return &Archiver{
		gateway: gw,
		logger:  logger,
		dryRun:  dryRun,
	}
}

// Run lists every non-archived repository of org and applies the policy in cfg.
// Listing failures abort the run; mutation failures are logged and counted.
func (a *Archiver) Run(ctx context.Context, org string, cfg domain.ArchiveConfig, now time.Time) (*domain.Summary, error) {
	a.logger.Info("Starting archive run", "org", org, "dry_run", a.dryRun,
		"archive_threshold", cfg.ArchiveThresholdDays,
		"notification_period", cfg.NotificationPeriodDays,
		"maximum_notifications", cfg.MaximumNotifications)

	notice := BuildNotice(cfg)
	reporter := NewReporter(a.logger)

	for snapshot, err := range a.gateway.Repositories(ctx, org, cfg.NotificationIssueTag) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run interrupted after %d repositories: %w", reporter.Counters().Scanned, err)
		}

		decision := Decide(snapshot, cfg, now, reporter.Counters().Notified)
		reporter.Observe(decision)
		a.logger.Debug("Evaluated repository",
			"repo", snapshot.Name,
			"action", decision.Action,
			"reason", decision.Reason,
			"inactive_days", decision.InactiveDays,
			"issue_age_days", decision.IssueAgeDays)

		switch decision.Action {
		case domain.ActionNotify:
			a.notify(ctx, org, snapshot.Name, notice, reporter)
		case domain.ActionArchive:
			a.archive(ctx, org, snapshot.Name, reporter)
		}
	}

	return reporter.Summary(org, a.dryRun), nil
}

func (a *Archiver) notify(ctx context.Context, org, repo string, notice domain.Notice, reporter *Reporter) {
	if a.dryRun {
		a.logger.Info("Dry run: would create notification issue", "repo", repo)
		reporter.Notified()
		return
	}
	if err := a.gateway.CreateNotificationIssue(ctx, org, repo, notice); err != nil {
		a.logger.Error("Failed to create notification issue", "repo", repo, "error", err)
		reporter.NotifyFailed()
		return
	}
	a.logger.Info("Created notification issue", "repo", repo)
	reporter.Notified()
}

func (a *Archiver) archive(ctx context.Context, org, repo string, reporter *Reporter) {
	if a.dryRun {
		a.logger.Info("Dry run: would archive repository", "repo", repo)
		reporter.Archived()
		return
	}
	if err := a.gateway.ArchiveRepository(ctx, org, repo); err != nil {
		a.logger.Error("Failed to archive repository", "repo", repo, "error", err)
		reporter.ArchiveFailed()
		return
	}
	a.logger.Info("Archived repository", "repo", repo)
	reporter.Archived()
}
