package usecase

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

const noticeTitle = "Repository Archive Notice"

// BuildNotice renders the notification issue posted to an inactive repository.
func BuildNotice(cfg domain.ArchiveConfig) domain.Notice {
	var b strings.Builder
	b.WriteString("## Important Notice \n\n")
	fmt.Fprintf(&b, "This repository has not been updated in over %d days and will be archived in %d days if no action is taken. \n",
		cfg.ArchiveThresholdDays, cfg.NotificationPeriodDays)
	b.WriteString("## Actions Required to Prevent Archive \n\n")
	fmt.Fprintf(&b, "1. Update the repository by creating/updating a file called %s. \n", exemptionFiles(cfg.ExemptionFilenames))
	b.WriteString("   - This file should contain the reason why the repository should not be archived. \n")
	b.WriteString("   - If the file already exists, please update it with the latest information. \n")
	b.WriteString("2. Close this issue. \n\n")
	fmt.Fprintf(&b, "After these actions, the repository will be exempt from archive for another %d days. \n\n", cfg.ArchiveThresholdDays)
	b.WriteString("If you have any questions, please contact an organization administrator.")

	return domain.Notice{
		Title: noticeTitle,
		Body:  b.String(),
		Label: cfg.NotificationIssueTag,
	}
}

// exemptionFiles renders "`A`", "`A` or `B`", "`A`, `B` or `C`".
func exemptionFiles(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "`" + name + "`"
	}
	if len(quoted) <= 1 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}
