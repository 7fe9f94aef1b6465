package models

import (
	"fmt"
	"strings"
)

// RawTask is one row of an uploaded task sheet keyed by column header.
// There is no fixed schema; unknown columns are carried through untouched.
type RawTask map[string]Value

// NormalizedTask is a RawTask reduced to the fields the manpower pipeline
// reads. Hours is always finite and positive.
type NormalizedTask struct {
	Zone  Value   `json:"zone"`
	Hours float64 `json:"hours"`
	Title string  `json:"title"`
	// Raw keeps the source row for consumers that need extra columns.
	Raw RawTask `json:"-"`
}

// ZoneBucket groups tasks sharing one zone value, in first-seen order.
type ZoneBucket struct {
	Zone       Value
	TotalHours float64
	Tasks      []NormalizedTask
}

// PersonnelType is a labor classification used for staffing counts.
type PersonnelType string

const (
	B1    PersonnelType = "B1"    // certifying staff, mechanical/structure
	B2    PersonnelType = "B2"    // certifying staff, avionics
	ME34  PersonnelType = "ME34"  // engine mechanics
	ME567 PersonnelType = "ME567" // systems mechanics
	ME128 PersonnelType = "ME128" // airframe/structure
	EA    PersonnelType = "EA"    // avionics
	MEC   PersonnelType = "MEC"   // general mechanic
	CAB   PersonnelType = "CAB"   // cabin/interior
)

// AllPersonnelTypes lists every type in reporting order.
var AllPersonnelTypes = []PersonnelType{B1, B2, ME34, ME567, ME128, EA, MEC, CAB}

// ParsePersonnelType resolves a type name case-insensitively.
func ParsePersonnelType(s string) (PersonnelType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, t := range AllPersonnelTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown personnel type %q", s)
}

// IsSpecialist reports whether t counts on the specialist side of the MEC ratio.
func (t PersonnelType) IsSpecialist() bool {
	return t != MEC
}

// Counts maps personnel types to headcount.
type Counts map[PersonnelType]int

// Total sums all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Specialists sums every count except MEC.
func (c Counts) Specialists() int {
	total := 0
	for t, n := range c {
		if t.IsSpecialist() {
			total += n
		}
	}
	return total
}

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for t, n := range c {
		out[t] = n
	}
	return out
}

// Manpower is one personnel line of a zone allocation.
type Manpower struct {
	PersonnelType PersonnelType `json:"personnelType"`
	Count         int           `json:"count"`
}

// Entries returns the non-zero counts in reporting order.
func (c Counts) Entries() []Manpower {
	out := make([]Manpower, 0, len(c))
	for _, t := range AllPersonnelTypes {
		if n := c[t]; n > 0 {
			out = append(out, Manpower{PersonnelType: t, Count: n})
		}
	}
	return out
}

// PerZoneManpower is the headcount required by one zone.
type PerZoneManpower struct {
	Zone   Value   `json:"zone"`
	Hours  float64 `json:"hours"`
	Counts Counts  `json:"counts"`
}

// Adjustment records one change made by calibration.
type Adjustment struct {
	Stage         string        `json:"stage"`
	PersonnelType PersonnelType `json:"personnelType"`
	Before        int           `json:"before"`
	After         int           `json:"after"`
}

// CalibratedReport is the result of one manpower calculation.
type CalibratedReport struct {
	PerZone               []PerZoneManpower `json:"perZone"`
	TotalsByType          Counts            `json:"totalsByType"`
	EstimatedDurationDays int               `json:"estimatedDurationDays"`
	TotalHours            float64           `json:"totalHours"`
	TaskCount             int               `json:"taskCount"`
	MajorItems            []NormalizedTask  `json:"majorItems,omitempty"`
	Adjustments           []Adjustment      `json:"adjustments,omitempty"`
}

// ZoneLabel renders a zone for display.
func ZoneLabel(zone Value) string {
	if zone.IsAbsent() {
		return "Unknown"
	}
	return zone.String()
}
