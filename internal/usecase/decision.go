// Package usecase contains the business logic of the application.
package usecase

import (
	"time"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// Decide evaluates one repository against the archive policy.
// notified is the number of notification issues already created in this run;
// it only gates NOTIFY, archives are never capped. Decide holds no state.
func Decide(snapshot domain.RepositorySnapshot, cfg domain.ArchiveConfig, now time.Time, notified int) domain.Decision {
	decision := domain.Decision{
		Action:       domain.ActionNone,
		InactiveDays: domain.DaysBetween(snapshot.UpdatedAt, now),
	}

	if decision.InactiveDays < cfg.ArchiveThresholdDays {
		decision.Reason = domain.ReasonActive
		return decision
	}

	if snapshot.OpenNotificationIssueCount == 0 {
		if notified >= cfg.MaximumNotifications {
			decision.Reason = domain.ReasonCapReached
			return decision
		}
		decision.Action = domain.ActionNotify
		decision.Reason = domain.ReasonNoticeMissing
		return decision
	}

	if snapshot.OldestNotification == nil {
		decision.Reason = domain.ReasonGracePeriod
		return decision
	}
	decision.IssueAgeDays = domain.DaysBetween(snapshot.OldestNotification.CreatedAt, now)
	if decision.IssueAgeDays >= cfg.NotificationPeriodDays {
		decision.Action = domain.ActionArchive
		decision.Reason = domain.ReasonGraceExpired
		return decision
	}
	decision.Reason = domain.ReasonGracePeriod
	return decision
}
