package parser

import (
	"aviation-ops/errors"
	"aviation-ops/metrics"
	"aviation-ops/models"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds how many rows are read from a legacy .xls workbook.
const maxXLSRows = 100000

// ReadRows reads the first worksheet of a spreadsheet as rows of cell text.
// The format is chosen by file extension: .xlsx/.xlsm via excelize, .xls via
// the legacy BIFF reader, .csv via encoding/csv. Every non-blank row is kept,
// including rows whose first cell starts with '#'.
func ReadRows(r io.Reader, fileName string) ([][]string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")

	var (
		rows [][]string
		err  error
	)
	switch format {
	case "xlsx", "xlsm":
		rows, err = readXLSX(r)
	case "xls":
		rows, err = readXLS(r)
	case "csv":
		rows, err = readCSV(r)
	default:
		err = fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, filepath.Ext(fileName))
	}
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues(format).Inc()
		return nil, err
	}

	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		metrics.ParserErrorsTotal.WithLabelValues(format).Inc()
		return nil, errors.ErrEmptyWorksheet
	}
	metrics.ParserRowsTotal.WithLabelValues(format).Add(float64(len(rows)))
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.ErrNoWorksheet
	}

	// raw values keep dates as Excel serial numbers
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

func readXLS(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	if workbook == nil {
		return nil, errors.ErrNoWorksheet
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, errors.ErrNoWorksheet
	}

	if sheet.MaxRow == 0 {
		return [][]string{xlsRow(sheet, 0)}, nil
	}

	// ReadAllCells walks sheets in order and stops once n rows are filled,
	// so asking for the first sheet's row count reads that sheet only.
	n := int(sheet.MaxRow) + 1
	if n > maxXLSRows {
		n = maxXLSRows
	}
	return workbook.ReadAllCells(n), nil
}

// xlsRow returns the cells of a single row, or nil for a row the file does
// not store. WorkSheet.Row dereferences missing rows, hence the recover.
func xlsRow(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	cells = make([]string, row.LastCol()+1)
	for c := row.FirstCol(); c <= row.LastCol(); c++ {
		cells[c] = row.Col(c)
	}
	return cells
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// RawTasks turns sheet rows into task rows keyed by the header row. Empty
// cells are left out, so a missing column and a blank cell look the same.
func RawTasks(rows [][]string) []models.RawTask {
	if len(rows) == 0 {
		return []models.RawTask{}
	}

	headers := headerNames(rows[0])
	tasks := make([]models.RawTask, 0, len(rows)-1)
	for _, row := range rows[1:] {
		task := make(models.RawTask, len(headers))
		for i, cell := range row {
			if i >= len(headers) {
				break
			}
			if v := ParseCell(cell); !v.IsAbsent() {
				task[headers[i]] = v
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func headerNames(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column %d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// ParseCell types a cell the way a spreadsheet would: numeric text becomes
// a number, blank becomes Absent, anything else stays a string. Codes with a
// leading zero such as "070" stay strings.
func ParseCell(cell string) models.Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return models.Absent
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return models.String(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.String(s)
	}
	return models.Number(f)
}
