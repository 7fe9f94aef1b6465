package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind tags the dynamic type of a spreadsheet cell.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
)

// Value is a single spreadsheet cell: a string, a number, or nothing.
// It is comparable, so it can key maps directly. A string "100" and the
// number 100 are different values.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// Absent is the zero Value.
var Absent = Value{}

// String returns a string Value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number returns a numeric Value. NaN collapses to Absent so that a Value
// stays usable as a map key.
func Number(n float64) Value {
	if math.IsNaN(n) {
		return Absent
	}
	return Value{Kind: KindNumber, Num: n}
}

// IsAbsent reports whether the cell was empty or missing.
func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// Truthy follows spreadsheet falsiness: missing, empty string and zero are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindNumber:
		return v.Num != 0
	default:
		return false
	}
}

// Float returns the numeric content of the value. Strings are parsed after
// trimming spaces; thousands separators are not accepted.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String renders the value as it would appear in a cell.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*v = Absent
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = String(string(data))
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
		return nil
	}
}
