// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepositorySnapshot is the read-only view of a repository taken at the start of a run.
// It is rebuilt from GitHub on every run and never persisted.
type RepositorySnapshot struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	// OpenNotificationIssueCount counts open issues carrying the notification label.
	OpenNotificationIssueCount int `json:"open_notification_issue_count"`
	// OldestNotification is the oldest open notification issue, nil when there is none.
	OldestNotification *NotificationIssue `json:"oldest_notification,omitempty"`
}

// NotificationIssue is a labeled issue opened to warn maintainers before archiving.
// Only its existence and age are consumed.
type NotificationIssue struct {
	RepositoryName string    `json:"repository_name"`
	CreatedAt      time.Time `json:"created_at"`
	Label          string    `json:"label"`
}

// Notice is the content of a notification issue to be created.
type Notice struct {
	Title string
	Body  string
	Label string
}

// DaysBetween returns the number of whole days elapsed from `from` to `to`.
// Negative spans (clock skew) count as zero.
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
