package manpower

import (
	"aviation-ops/models"
	"fmt"
	"strings"
)

// MajorItems returns the tasks worth calling out in a summary: titles naming
// engineering orders, troubleshooting, paint or replacement work, and any
// task at or above cfg.MajorItemHours.
func MajorItems(tasks []models.NormalizedTask, cfg Config) []models.NormalizedTask {
	var items []models.NormalizedTask
	for _, task := range tasks {
		big := cfg.MajorItemHours > 0 && task.Hours >= cfg.MajorItemHours
		if big || containsAnyKeyword(task.Title, cfg.MajorItemKeywords) {
			items = append(items, task)
		}
	}
	return items
}

// ManpowerLine renders totals as "4B1, 1B2, 15MEC", skipping zero counts.
func ManpowerLine(totals models.Counts) string {
	entries := totals.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%d%s", e.Count, e.PersonnelType))
	}
	return strings.Join(parts, ", ")
}

// Summary is the deterministic text summary of a report. It is used as is
// when no generative advisor is configured or the advisor fails.
func Summary(report *models.CalibratedReport, fileName string, cfg Config) string {
	var sb strings.Builder

	if len(report.MajorItems) > 0 {
		fmt.Fprintf(&sb, "Work package %q includes the following major items:\n", fileName)
		for i, item := range report.MajorItems {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item.Title)
		}
	} else {
		fmt.Fprintf(&sb, "Work package %q contains %d tasks in %d zones.\n", fileName, report.TaskCount, len(report.PerZone))
	}

	fmt.Fprintf(&sb, "Total %.2f man-hours; expected completion in %d day(s) with a team of %d (%.0f man-hours per day).\n",
		report.TotalHours, report.EstimatedDurationDays, cfg.teamSize(), DailyCapacity(cfg))

	sb.WriteString("\nManpower: ")
	if line := ManpowerLine(report.TotalsByType); line != "" {
		sb.WriteString(line)
	} else {
		sb.WriteString("none")
	}
	return sb.String()
}
