package parser

import (
	"aviation-ops/models"
	"math"
	"strings"
	"time"
)

// excelEpoch is day zero of Excel's 1900 date system as it is usually read
// (it absorbs the fictitious 1900-02-29).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NormalizeDate renders a date cell as YYYY-MM-DD. Numbers are Excel serial
// dates; strings are tried against common layouts. Unusable input gives "".
func NormalizeDate(v models.Value) string {
	switch v.Kind {
	case models.KindNumber:
		return fromSerial(v.Num)
	case models.KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return ""
		}
		if n, ok := v.Float(); ok {
			return fromSerial(n)
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return ""
}

// maxSerial is 9999-12-31, the last date Excel can store.
const maxSerial = 2958465

func fromSerial(serial float64) string {
	if !(serial > 0) || serial >= maxSerial+1 {
		return ""
	}
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400)
	t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
	return t.Format("2006-01-02")
}
