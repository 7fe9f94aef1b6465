package parser_test

import (
	"errors"
	"testing"

	customerrors "aviation-ops/errors"
	"aviation-ops/models"
	"aviation-ops/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := map[string]struct {
		input    models.Value
		expected string
	}{
		"SerialNumber":       {input: models.Number(45292), expected: "2024-01-01"},
		"SerialWithTime":     {input: models.Number(45292.75), expected: "2024-01-01"},
		"SerialAsText":       {input: models.String("45351"), expected: "2024-02-29"},
		"ISODate":            {input: models.String("2024-03-05"), expected: "2024-03-05"},
		"ISOTimestamp":       {input: models.String("2024-03-05T10:00:00Z"), expected: "2024-03-05"},
		"SlashDate":          {input: models.String("2024/03/05"), expected: "2024-03-05"},
		"USDate":             {input: models.String("3/5/2024"), expected: "2024-03-05"},
		"MonthName":          {input: models.String("Mar 5, 2024"), expected: "2024-03-05"},
		"Absent":             {input: models.Absent, expected: ""},
		"Blank":              {input: models.String("  "), expected: ""},
		"Garbage":            {input: models.String("next tuesday"), expected: ""},
		"ZeroSerial":         {input: models.Number(0), expected: ""},
		"NegativeSerialText": {input: models.String("-3"), expected: ""},
		"FarFutureSerial":    {input: models.Number(200000), expected: "2447-07-30"},
		"LastExcelDate":      {input: models.Number(2958465), expected: "9999-12-31"},
		"PastLastExcelDate":  {input: models.Number(2958466), expected: ""},
		"HugeSerialText":     {input: models.String("1e12"), expected: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.NormalizeDate(tt.input))
		})
	}
}

func TestWorkLogs(t *testing.T) {
	t.Run("MapsColumnsByAlias", func(t *testing.T) {
		rows := [][]string{
			{"Date", "Aircraft Type", "Station", "Work Type", "Flights", "Man Hours", "Remarks"},
			{"45292", "A321", "SGN", "Transit", "4", "12.5", "ok"},
			{"2024-01-02", "", "HAN", "Daily", "", "3"},
		}

		logs, err := parser.WorkLogs(rows, "jan.xlsx")
		require.NoError(t, err)
		assert.Equal(t, []models.WorkLog{
			{Date: models.Number(45292), AircraftType: "A321", Airport: "SGN", WorkType: "Transit", Flights: 4, ManHours: 12.5, FileName: "jan.xlsx"},
			{Date: models.String("2024-01-02"), Airport: "HAN", WorkType: "Daily", ManHours: 3, FileName: "jan.xlsx"},
		}, logs)
	})

	t.Run("MissingDateHeader", func(t *testing.T) {
		_, err := parser.WorkLogs([][]string{{"Airport", "Flights"}, {"SGN", "1"}}, "x.csv")

		var rowErr *customerrors.RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, 1, rowErr.Row)
		assert.Equal(t, "Date", rowErr.Field)
		assert.True(t, errors.Is(err, customerrors.ErrMissingHeader))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := parser.WorkLogs(nil, "x.csv")
		assert.True(t, errors.Is(err, customerrors.ErrEmptyWorksheet))
	})
}
