// Package dashboard aggregates historical work-log records into the rows and
// KPIs shown on the operations dashboard. Every call recomputes from the full
// record set; nothing is cached between calls.
package dashboard

import (
	"aviation-ops/models"
	"aviation-ops/parser"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// GroupBy selects the aggregation key.
type GroupBy string

const (
	GroupDay      GroupBy = "day"
	GroupMonth    GroupBy = "month"
	GroupAircraft GroupBy = "aircraft"
	GroupAirport  GroupBy = "airport"
)

// UnknownLabel is used for records with no aircraft type or airport.
const UnknownLabel = "Unknown"

// ParseGroupBy validates a grouping name.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupDay, GroupMonth, GroupAircraft, GroupAirport:
		return g, nil
	default:
		return "", fmt.Errorf("unknown grouping %q", s)
	}
}

// IsDateBased reports whether the grouping is keyed by date.
func (g GroupBy) IsDateBased() bool {
	return g == GroupDay || g == GroupMonth
}

// Filter restricts date-based groupings. A non-empty Year takes precedence
// over the From/To range; empty bounds are open. Dates compare as
// YYYY-MM-DD strings.
type Filter struct {
	From string
	To   string
	Year string
}

// Match reports whether a normalized date passes the filter. Records whose
// date cannot be read never match a non-empty filter.
func (f Filter) Match(date string) bool {
	if f.Year != "" {
		return date != "" && strings.HasPrefix(date, f.Year)
	}
	if f.From == "" && f.To == "" {
		return true
	}
	if date == "" {
		return false
	}
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}
	return true
}

// Apply returns the records whose date passes the filter, in input order.
func (f Filter) Apply(records []models.WorkLog) []models.WorkLog {
	return lo.Filter(records, func(r models.WorkLog, _ int) bool {
		return f.Match(parser.NormalizeDate(r.Date))
	})
}

// Aggregate groups records by the requested key. Day and month rows are
// filtered and sorted by label; in year mode the month grouping carries all
// twelve months even when some have no records. Aircraft and airport rows
// cover the whole record set in first-seen order.
func Aggregate(records []models.WorkLog, by GroupBy, filter Filter) ([]models.AggregateRow, error) {
	switch by {
	case GroupDay:
		return byDate(filter.Apply(records), 10, nil), nil
	case GroupMonth:
		var fill []string
		if filter.Year != "" {
			fill = yearMonths(filter.Year)
		}
		return byDate(filter.Apply(records), 7, fill), nil
	case GroupAircraft:
		return byLabel(records, func(r models.WorkLog) string { return r.AircraftType }), nil
	case GroupAirport:
		return byLabel(records, func(r models.WorkLog) string { return r.Airport }), nil
	default:
		return nil, fmt.Errorf("unknown grouping %q", by)
	}
}

type accumulator struct {
	rows  []models.AggregateRow
	index map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{rows: []models.AggregateRow{}, index: make(map[string]int)}
}

func (a *accumulator) row(label string) *models.AggregateRow {
	i, ok := a.index[label]
	if !ok {
		i = len(a.rows)
		a.index[label] = i
		a.rows = append(a.rows, models.AggregateRow{Label: label})
	}
	return &a.rows[i]
}

func (a *accumulator) add(label string, r models.WorkLog) {
	row := a.row(label)
	row.TotalFlights += r.Flights
	row.TotalManHours += r.ManHours
	row.RecordCount++
}

// byDate keys records by the first n characters of their normalized date.
// Records with an unreadable date are skipped.
func byDate(records []models.WorkLog, n int, fill []string) []models.AggregateRow {
	acc := newAccumulator()
	for _, r := range records {
		date := parser.NormalizeDate(r.Date)
		if len(date) < n {
			continue
		}
		acc.add(date[:n], r)
	}
	for _, label := range fill {
		acc.row(label)
	}
	sort.SliceStable(acc.rows, func(i, j int) bool { return acc.rows[i].Label < acc.rows[j].Label })
	return acc.rows
}

func byLabel(records []models.WorkLog, label func(models.WorkLog) string) []models.AggregateRow {
	acc := newAccumulator()
	for _, r := range records {
		acc.add(labelOrUnknown(label(r)), r)
	}
	return acc.rows
}

func labelOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return UnknownLabel
	}
	return s
}

func yearMonths(year string) []string {
	months := make([]string, 12)
	for i := range months {
		months[i] = fmt.Sprintf("%s-%02d", year, i+1)
	}
	return months
}
