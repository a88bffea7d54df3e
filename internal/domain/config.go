package domain

import "fmt"

// Features holds the feature flags of the configuration document.
type Features struct {
	ShowLogLocally bool `mapstructure:"show_log_locally" json:"show_log_locally"`
	UseLocalConfig bool `mapstructure:"use_local_config" json:"use_local_config"`
}

// ArchiveConfig is the archive policy. It is immutable for the duration of a run.
type ArchiveConfig struct {
	ArchiveThresholdDays   int      `mapstructure:"archive_threshold"`
	NotificationPeriodDays int      `mapstructure:"notification_period"`
	NotificationIssueTag   string   `mapstructure:"notification_issue_tag"`
	ExemptionFilenames     []string `mapstructure:"exemption_filename"`
	MaximumNotifications   int      `mapstructure:"maximum_notifications"`
}

// Settings is the fully resolved configuration document.
type Settings struct {
	Features Features      `mapstructure:"features"`
	Archive  ArchiveConfig `mapstructure:"archive_configuration"`
}

// Validate rejects policies that cannot be applied.
func (c ArchiveConfig) Validate() error {
	switch {
	case c.ArchiveThresholdDays < 0:
		return fmt.Errorf("archive_threshold must not be negative, got %d", c.ArchiveThresholdDays)
	case c.NotificationPeriodDays < 0:
		return fmt.Errorf("notification_period must not be negative, got %d", c.NotificationPeriodDays)
	case c.MaximumNotifications < 0:
		return fmt.Errorf("maximum_notifications must not be negative, got %d", c.MaximumNotifications)
	case c.NotificationIssueTag == "":
		return fmt.Errorf("notification_issue_tag must not be empty")
	case len(c.ExemptionFilenames) == 0:
		return fmt.Errorf("exemption_filename must name at least one file")
	}
	return nil
}
