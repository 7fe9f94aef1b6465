package manpower

import (
	customerrors "aviation-ops/errors"
	"aviation-ops/models"
	"math"
	"sort"
	"strings"
)

// Normalize converts raw sheet rows into tasks, in input order. Rows are
// never dropped: missing or falsy hours become cfg.DefaultHours, a missing
// zone stays Absent and a missing title is empty. Negative hours are the
// only rejected input.
func Normalize(raw []models.RawTask, cfg Config) ([]models.NormalizedTask, error) {
	tasks, _, err := normalize(raw, cfg)
	return tasks, err
}

// normalize also reports how many rows received the default hours.
func normalize(raw []models.RawTask, cfg Config) ([]models.NormalizedTask, int, error) {
	tasks := make([]models.NormalizedTask, len(raw))
	defaulted := 0

	for i, row := range raw {
		hoursKey, hoursVal := lookup(row, cfg.HoursColumns)
		hours, ok := taskHours(hoursVal)
		if ok && hours < 0 {
			return nil, defaulted, &customerrors.RowError{
				Row:   i + 1,
				Field: hoursKey,
				Err:   customerrors.ErrNegativeHours,
			}
		}
		if !ok {
			hours = cfg.DefaultHours
			defaulted++
		}

		_, zone := lookup(row, cfg.ZoneColumns)
		_, title := lookup(row, cfg.TitleColumns)

		tasks[i] = models.NormalizedTask{
			Zone:  trimZone(zone),
			Hours: hours,
			Title: strings.TrimSpace(title.String()),
			Raw:   row,
		}
	}

	return tasks, defaulted, nil
}

// taskHours returns the usable hours of a cell, or false when the default applies.
func taskHours(v models.Value) (float64, bool) {
	if !v.Truthy() {
		return 0, false
	}
	h, ok := v.Float()
	if !ok || h == 0 || math.IsInf(h, 0) {
		return 0, false
	}
	return h, true
}

func trimZone(v models.Value) models.Value {
	if v.Kind != models.KindString {
		return v
	}
	s := strings.TrimSpace(v.Str)
	if s == "" {
		return models.Absent
	}
	return models.String(s)
}

// lookup finds the first alias present in the row. Exact header matches win;
// otherwise headers are compared case-insensitively after trimming.
func lookup(row models.RawTask, aliases []string) (string, models.Value) {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return alias, v
		}
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, alias := range aliases {
		want := foldHeader(alias)
		for _, k := range keys {
			if foldHeader(k) == want {
				return k, row[k]
			}
		}
	}
	return "", models.Absent
}

func foldHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
