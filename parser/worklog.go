package parser

import (
	"aviation-ops/errors"
	"aviation-ops/models"
	"fmt"
	"strings"
)

var workLogColumns = map[string][]string{
	"Date":         {"date", "ngay"},
	"AircraftType": {"aircrafttype", "aircraft type", "ac type", "aircraft"},
	"Airport":      {"airport", "station"},
	"WorkType":     {"worktype", "work type"},
	"Flights":      {"flights", "flight count", "flight"},
	"ManHours":     {"manhours", "man hours", "man-hours", "mh"},
}

// WorkLogs maps sheet rows onto work-log records and stamps them with the
// source file name. Only the Date column is required; missing numeric cells
// count as zero.
func WorkLogs(rows [][]string, fileName string) ([]models.WorkLog, error) {
	if len(rows) == 0 {
		return nil, errors.ErrEmptyWorksheet
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.Join(strings.Fields(h), " "))
		for field, aliases := range workLogColumns {
			if _, seen := index[field]; seen {
				continue
			}
			for _, alias := range aliases {
				if key == alias {
					index[field] = i
					break
				}
			}
		}
	}
	if _, ok := index["Date"]; !ok {
		return nil, &errors.RowError{Row: 1, Field: "Date", Err: fmt.Errorf("%w: Date", errors.ErrMissingHeader)}
	}

	cell := func(row []string, field string) models.Value {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return models.Absent
		}
		return ParseCell(row[i])
	}
	number := func(row []string, field string) float64 {
		f, _ := cell(row, field).Float()
		return f
	}

	logs := make([]models.WorkLog, 0, len(rows)-1)
	for _, row := range rows[1:] {
		logs = append(logs, models.WorkLog{
			Date:         cell(row, "Date"),
			AircraftType: cell(row, "AircraftType").String(),
			Airport:      cell(row, "Airport").String(),
			WorkType:     cell(row, "WorkType").String(),
			Flights:      number(row, "Flights"),
			ManHours:     number(row, "ManHours"),
			FileName:     fileName,
		})
	}
	return logs, nil
}
