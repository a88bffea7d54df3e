package domain

// Action is what the run does with a single repository.
type Action string

const (
	ActionNone    Action = "none"
	ActionNotify  Action = "notify"
	ActionArchive Action = "archive"
)

// Reason explains a Decision in logs and reports.
type Reason string

const (
	ReasonActive        Reason = "active"
	ReasonNoticeMissing Reason = "notice_missing"
	ReasonCapReached    Reason = "notification_cap_reached"
	ReasonGracePeriod   Reason = "within_grace_period"
	ReasonGraceExpired  Reason = "grace_period_expired"
)

// Decision is the outcome of evaluating one repository against the archive policy.
type Decision struct {
	Action       Action `json:"action"`
	Reason       Reason `json:"reason"`
	InactiveDays int    `json:"inactive_days"`
	// IssueAgeDays is only meaningful when a notification issue exists.
	IssueAgeDays int `json:"issue_age_days"`
}
