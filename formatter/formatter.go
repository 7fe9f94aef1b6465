package formatter

import (
	"aviation-ops/dashboard"
	"aviation-ops/models"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ReportData holds prepared report data used by all formatters
type ReportData struct {
	Zones                 []ZoneData          `json:"zones"`
	Totals                map[string]int      `json:"totals_by_type"`
	TotalHeadcount        int                 `json:"total_headcount"`
	TotalHours            float64             `json:"total_hours"`
	TaskCount             int                 `json:"task_count"`
	EstimatedDurationDays int                 `json:"estimated_duration_days"`
	MajorItems            []string            `json:"major_items,omitempty"`
	Adjustments           []models.Adjustment `json:"adjustments,omitempty"`
	Summary               string              `json:"summary,omitempty"`
}

// ZoneData is one zone row of the report
type ZoneData struct {
	Zone     string            `json:"zone"`
	Hours    float64           `json:"hours"`
	Total    int               `json:"total"`
	Manpower []models.Manpower `json:"manpower"`
}

// prepareReportData flattens a report into labelled rows. Totals carry
// every personnel type, including zeros.
func prepareReportData(report *models.CalibratedReport, summary string) *ReportData {
	zones := make([]ZoneData, len(report.PerZone))
	for i, z := range report.PerZone {
		zones[i] = ZoneData{
			Zone:     models.ZoneLabel(z.Zone),
			Hours:    z.Hours,
			Total:    z.Counts.Total(),
			Manpower: z.Counts.Entries(),
		}
	}

	totals := make(map[string]int, len(models.AllPersonnelTypes))
	for _, pt := range models.AllPersonnelTypes {
		totals[string(pt)] = report.TotalsByType[pt]
	}

	items := make([]string, len(report.MajorItems))
	for i, t := range report.MajorItems {
		items[i] = t.Title
	}

	return &ReportData{
		Zones:                 zones,
		Totals:                totals,
		TotalHeadcount:        report.TotalsByType.Total(),
		TotalHours:            report.TotalHours,
		TaskCount:             report.TaskCount,
		EstimatedDurationDays: report.EstimatedDurationDays,
		MajorItems:            items,
		Adjustments:           report.Adjustments,
		Summary:               summary,
	}
}

// FormatText returns the text representation of the report. The summary is
// printed first when given.
func FormatText(report *models.CalibratedReport, summary string) string {
	data := prepareReportData(report, summary)
	var sb strings.Builder

	if data.Summary != "" {
		sb.WriteString(data.Summary)
		sb.WriteString("\n\n")
	}

	for _, zone := range data.Zones {
		sb.WriteString(formatTextLine(zone.Zone, zone.Hours, zone.Total, zone.Manpower))
		sb.WriteString("\n")
	}
	sb.WriteString(formatTextLine("TOTAL", data.TotalHours, data.TotalHeadcount, report.TotalsByType.Entries()))
	sb.WriteString("\n")

	for _, adj := range data.Adjustments {
		sb.WriteString(fmt.Sprintf("  ⚠️  CALIBRATED [%s]: %s %d -> %d\n", adj.Stage, adj.PersonnelType, adj.Before, adj.After))
	}

	sb.WriteString(fmt.Sprintf("Tasks: %d ; estimated duration: %d day(s)\n", data.TaskCount, data.EstimatedDurationDays))
	return sb.String()
}

// FormatJSON returns the JSON representation of the report
func FormatJSON(report *models.CalibratedReport, summary string) string {
	data := prepareReportData(report, summary)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the report: one row per zone
// with a column per personnel type, then a TOTAL row.
func FormatCSV(report *models.CalibratedReport) string {
	data := prepareReportData(report, "")
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{"Zone", "Hours"}
	for _, pt := range models.AllPersonnelTypes {
		header = append(header, string(pt))
	}
	header = append(header, "Total")
	writer.Write(header)

	for i, zone := range data.Zones {
		writer.Write(csvRow(zone.Zone, zone.Hours, report.PerZone[i].Counts))
	}
	writer.Write(csvRow("TOTAL", data.TotalHours, report.TotalsByType))

	writer.Flush()
	return sb.String()
}

func csvRow(label string, hours float64, counts models.Counts) []string {
	row := []string{label, strconv.FormatFloat(hours, 'f', -1, 64)}
	for _, pt := range models.AllPersonnelTypes {
		row = append(row, strconv.Itoa(counts[pt]))
	}
	return append(row, strconv.Itoa(counts.Total()))
}

// formatTextLine formats a single zone line for text output
func formatTextLine(label string, hours float64, total int, manpower []models.Manpower) string {
	if total == 0 {
		return fmt.Sprintf("%s : hours=%.3f ; total=0 ; none", label, hours)
	}

	parts := make([]string, len(manpower))
	for i, m := range manpower {
		parts[i] = fmt.Sprintf("%s=%d", m.PersonnelType, m.Count)
	}
	return fmt.Sprintf("%s : hours=%.3f ; total=%d ; [%s]", label, hours, total, strings.Join(parts, ", "))
}

// FormatDashboardText returns the text representation of a dashboard view
func FormatDashboardText(view dashboard.View) string {
	var sb strings.Builder

	for _, row := range view.Rows {
		sb.WriteString(fmt.Sprintf("%s : flights=%s ; man_hours=%.2f ; records=%d\n",
			row.Label, strconv.FormatFloat(row.TotalFlights, 'f', -1, 64), row.TotalManHours, row.RecordCount))
	}
	if len(view.Rows) == 0 {
		sb.WriteString("no records\n")
	}

	sb.WriteString(fmt.Sprintf("Total flights: %s ; total man-hours: %.2f ; busiest airport: %s ; files: %d\n",
		strconv.FormatFloat(view.KPIs.TotalFlights, 'f', -1, 64), view.KPIs.TotalManHours, view.KPIs.BusiestAirport, view.KPIs.UniqueFiles))
	sb.WriteString(fmt.Sprintf("Busiest by flights: %s ; busiest by man-hours: %s\n", view.BusiestByFlights, view.BusiestByManHours))
	return sb.String()
}

// FormatDashboardJSON returns the JSON representation of a dashboard view
func FormatDashboardJSON(view dashboard.View) string {
	jsonBytes, _ := json.MarshalIndent(view, "", "  ")
	return string(jsonBytes)
}

// FormatDashboardCSV returns the aggregated rows as CSV
func FormatDashboardCSV(view dashboard.View) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{"Label", "Flights", "Man Hours", "Records"})
	for _, row := range view.Rows {
		writer.Write([]string{
			row.Label,
			strconv.FormatFloat(row.TotalFlights, 'f', -1, 64),
			strconv.FormatFloat(row.TotalManHours, 'f', -1, 64),
			strconv.Itoa(row.RecordCount),
		})
	}

	writer.Flush()
	return sb.String()
}
