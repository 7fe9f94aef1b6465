package manpower

import (
	customerrors "aviation-ops/errors"
	"aviation-ops/models"
	"fmt"
	"math"
)

// ZoneRule maps zone codes to a personnel type. Zones are exact codes
// compared case-insensitively; MajorZones match three-digit codes by their
// hundreds (e.g. 100 matches 100-199).
type ZoneRule struct {
	Type       models.PersonnelType
	Zones      []string
	MajorZones []int
}

// KeywordRule maps title keywords to a personnel type.
type KeywordRule struct {
	Type     models.PersonnelType
	Keywords []string
}

// Config holds the constants of a manpower calculation. It is passed by
// value and never modified by the pipeline.
type Config struct {
	// DefaultHours replaces missing or falsy task hours.
	DefaultHours float64
	// HoursPerPersonDay is the work one person delivers per day.
	HoursPerPersonDay float64
	// TeamSize is the reference team used for duration. Zero means the sum of Target.
	TeamSize int
	// Target is the reference team composition used by calibration.
	Target models.Counts
	// MECRatioMin and MECRatioMax bound total MEC against total specialists.
	MECRatioMin float64
	MECRatioMax float64
	// CalibrationWeight is how far totals move toward Target: 0 keeps raw
	// totals, 1 scales all the way.
	CalibrationWeight float64

	ZoneColumns  []string
	HoursColumns []string
	TitleColumns []string

	// MergeNumericZones groups numeric zone 100 with string zone "100".
	MergeNumericZones bool

	ZoneRules          []ZoneRule
	TitleRules         []KeywordRule
	CertifyingKeywords []string
	AvionicsKeywords   []string

	MajorItemKeywords []string
	MajorItemHours    float64
}

// DefaultConfig returns the reference constants for a line-maintenance work package.
func DefaultConfig() Config {
	return Config{
		DefaultHours:      0.009,
		HoursPerPersonDay: 8,
		TeamSize:          27,
		Target: models.Counts{
			models.B1:    4,
			models.B2:    1,
			models.ME34:  2,
			models.ME567: 2,
			models.ME128: 2,
			models.EA:    1,
			models.MEC:   15,
		},
		MECRatioMin:       1,
		MECRatioMax:       2,
		CalibrationWeight: 1,
		ZoneColumns:       []string{"zone division", "zone", "zone_division", "khu vuc"},
		HoursColumns:      []string{"MAC hour", "MAC hours", "man hours", "manhours", "hours", "MH"},
		TitleColumns:      []string{"tiêu đề các task", "title", "task title", "task", "description"},
		ZoneRules: []ZoneRule{
			{Type: models.EA, Zones: []string{"AVI", "AVIONICS", "E&E"}},
			{Type: models.CAB, Zones: []string{"CAB", "CABIN", "INT", "INTERIOR"}},
			{Type: models.ME34, Zones: []string{"70"}, MajorZones: []int{300, 400}},
			{Type: models.ME128, MajorZones: []int{100, 200, 800}},
			{Type: models.ME567, MajorZones: []int{500, 600, 700}},
		},
		TitleRules: []KeywordRule{
			{Type: models.EA, Keywords: []string{"avionic", "avionics", "radio", "radar", "antenna", "wiring", "transponder", "fms", "software"}},
			{Type: models.CAB, Keywords: []string{"cabin", "seat", "seats", "galley", "lavatory", "carpet", "interior", "overhead bin"}},
			{Type: models.ME34, Keywords: []string{"engine", "apu", "nacelle", "thrust reverser", "borescope", "fan blade"}},
			{Type: models.ME567, Keywords: []string{"hydraulic", "landing gear", "fuel", "flap", "slat", "brake", "brakes", "wheel", "tire", "actuator"}},
			{Type: models.ME128, Keywords: []string{"structure", "structural", "skin", "corrosion", "fuselage", "paint", "dent", "doubler"}},
		},
		CertifyingKeywords: []string{"rii", "duplicate inspection", "certify", "certification", "sign off", "sign-off", "crs", "release to service"},
		AvionicsKeywords:   []string{"avionic", "avionics", "radio", "radar", "antenna", "wiring", "transponder", "fms", "software"},
		MajorItemKeywords:  []string{"EO", "EOD", "T/S", "trouble shoot", "troubleshoot", "paint", "replace"},
		MajorItemHours:     8,
	}
}

// Validate rejects constants the pipeline cannot work with.
func (c Config) Validate() error {
	switch {
	case !(c.DefaultHours > 0) || math.IsInf(c.DefaultHours, 0):
		return fmt.Errorf("%w: default hours must be positive, got %v", customerrors.ErrInvalidConfig, c.DefaultHours)
	case !(c.HoursPerPersonDay > 0):
		return fmt.Errorf("%w: hours per person-day must be positive, got %v", customerrors.ErrInvalidConfig, c.HoursPerPersonDay)
	case c.TeamSize < 0:
		return fmt.Errorf("%w: team size must not be negative, got %d", customerrors.ErrInvalidConfig, c.TeamSize)
	case c.MECRatioMin < 0 || c.MECRatioMax < c.MECRatioMin:
		return fmt.Errorf("%w: MEC ratio band [%v, %v] is empty", customerrors.ErrInvalidConfig, c.MECRatioMin, c.MECRatioMax)
	case c.CalibrationWeight < 0 || c.CalibrationWeight > 1:
		return fmt.Errorf("%w: calibration weight must be within [0, 1], got %v", customerrors.ErrInvalidConfig, c.CalibrationWeight)
	}
	for t, n := range c.Target {
		if n < 0 {
			return fmt.Errorf("%w: target for %s is negative", customerrors.ErrInvalidConfig, t)
		}
	}
	return nil
}

func (c Config) teamSize() int {
	if c.TeamSize > 0 {
		return c.TeamSize
	}
	return c.Target.Total()
}
