package manpower

import (
	"aviation-ops/models"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Allocate computes the uncalibrated headcount of one zone. Each task is
// classified on its own, so a zone can need several personnel types.
func Allocate(bucket models.ZoneBucket, cfg Config) models.PerZoneManpower {
	alloc, _ := allocate(bucket, cfg)
	return alloc
}

// allocate also reports how many tasks matched no rule and fell back to MEC.
func allocate(bucket models.ZoneBucket, cfg Config) (models.PerZoneManpower, int) {
	hoursByType := make(map[models.PersonnelType]float64)
	fallbacks := 0
	for _, task := range bucket.Tasks {
		t, matched := classify(bucket.Zone, task.Title, cfg)
		if !matched {
			fallbacks++
		}
		hoursByType[t] += task.Hours
	}

	counts := make(models.Counts, len(hoursByType))
	for t, hours := range hoursByType {
		if n := ceilDiv(hours, cfg.HoursPerPersonDay); n > 0 {
			counts[t] = n
		}
	}

	return models.PerZoneManpower{
		Zone:   bucket.Zone,
		Hours:  bucket.TotalHours,
		Counts: counts,
	}, fallbacks
}

// Classify picks the personnel type for one task. Certifying sign-off
// keywords win, then the zone code, then title keywords; anything left is MEC.
func Classify(zone models.Value, title string, cfg Config) models.PersonnelType {
	t, _ := classify(zone, title, cfg)
	return t
}

func classify(zone models.Value, title string, cfg Config) (models.PersonnelType, bool) {
	zoneType, zoneMatched := zoneType(zone, cfg.ZoneRules)

	if containsAnyKeyword(title, cfg.CertifyingKeywords) {
		if zoneType == models.EA || containsAnyKeyword(title, cfg.AvionicsKeywords) {
			return models.B2, true
		}
		return models.B1, true
	}
	if zoneMatched {
		return zoneType, true
	}
	for _, rule := range cfg.TitleRules {
		if containsAnyKeyword(title, rule.Keywords) {
			return rule.Type, true
		}
	}
	return models.MEC, false
}

func zoneType(zone models.Value, rules []ZoneRule) (models.PersonnelType, bool) {
	code := strings.TrimSpace(zone.String())
	if code == "" {
		return "", false
	}

	for _, rule := range rules {
		for _, z := range rule.Zones {
			if strings.EqualFold(z, code) {
				return rule.Type, true
			}
		}
	}

	major, ok := majorZone(code)
	if !ok {
		return "", false
	}
	for _, rule := range rules {
		for _, m := range rule.MajorZones {
			if m == major {
				return rule.Type, true
			}
		}
	}
	return "", false
}

// majorZone reads the hundreds of a three-digit zone code such as "211" or
// "311AL".
func majorZone(code string) (int, bool) {
	end := 0
	for end < len(code) && code[end] >= '0' && code[end] <= '9' {
		end++
	}
	if end != 3 {
		return 0, false
	}
	n, err := strconv.Atoi(code[:end])
	if err != nil || n < 100 {
		return 0, false
	}
	return n / 100 * 100, true
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if containsKeyword(text, kw) {
			return true
		}
	}
	return false
}

// containsKeyword matches kw case-insensitively on word boundaries, so "EO"
// matches "EO 2024-01" but not "video".
func containsKeyword(text, kw string) bool {
	kw = strings.ToLower(strings.TrimSpace(kw))
	if kw == "" {
		return false
	}
	lower := strings.ToLower(text)
	for from := 0; from <= len(lower)-len(kw); {
		i := strings.Index(lower[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)
		if isBoundary(lower, start-1) && isBoundary(lower, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	if r >= 0x80 {
		// inside a multi-byte rune: treat as a letter
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func ceilDiv(hours, perDay float64) int {
	if hours <= 0 || perDay <= 0 {
		return 0
	}
	n := int(math.Ceil(hours / perDay))
	if n < 1 {
		return 1
	}
	return n
}
