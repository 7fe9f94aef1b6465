package manpower

import (
	"aviation-ops/models"
	"math"
	"sort"
)

// Calibration stages reported in adjustments.
const (
	StageTarget = "target"
	StageRatio  = "ratio"
)

// Calibrate adjusts raw per-zone counts in two passes and returns new
// allocations; raw is left untouched.
//
// The target pass scales every zone's count of a type by the same factor so
// the type total moves toward cfg.Target, rounding each zone to the nearest
// integer. It is best effort. The ratio pass then forces total MEC into
// [MECRatioMin, MECRatioMax] times the specialist total and always wins.
func Calibrate(raw []models.PerZoneManpower, cfg Config) ([]models.PerZoneManpower, []models.Adjustment) {
	zones := make([]models.PerZoneManpower, len(raw))
	for i, z := range raw {
		zones[i] = models.PerZoneManpower{Zone: z.Zone, Hours: z.Hours, Counts: z.Counts.Clone()}
	}

	var adjustments []models.Adjustment
	for _, t := range models.AllPersonnelTypes {
		if adj, changed := calibrateToTarget(zones, t, cfg); changed {
			adjustments = append(adjustments, adj)
		}
	}
	if adj, changed := enforceRatio(zones, cfg); changed {
		adjustments = append(adjustments, adj)
	}

	return zones, adjustments
}

func calibrateToTarget(zones []models.PerZoneManpower, t models.PersonnelType, cfg Config) (models.Adjustment, bool) {
	target, ok := cfg.Target[t]
	if !ok {
		return models.Adjustment{}, false
	}
	before := typeTotal(zones, t)
	// nothing to scale; calibration never invents a type a zone did not need
	if before == 0 {
		return models.Adjustment{}, false
	}

	desired := float64(before) + cfg.CalibrationWeight*float64(target-before)
	factor := desired / float64(before)
	for i := range zones {
		n := zones[i].Counts[t]
		if n == 0 {
			continue
		}
		setCount(zones[i].Counts, t, int(math.Round(float64(n)*factor)))
	}

	after := typeTotal(zones, t)
	return models.Adjustment{Stage: StageTarget, PersonnelType: t, Before: before, After: after}, after != before
}

func enforceRatio(zones []models.PerZoneManpower, cfg Config) (models.Adjustment, bool) {
	specialists := 0
	for _, z := range zones {
		specialists += z.Counts.Specialists()
	}
	// the band is undefined without specialists
	if specialists == 0 {
		return models.Adjustment{}, false
	}

	low := int(math.Ceil(cfg.MECRatioMin * float64(specialists)))
	high := int(math.Floor(cfg.MECRatioMax * float64(specialists)))
	if high < low {
		high = low
	}

	before := typeTotal(zones, models.MEC)
	want := before
	if want < low {
		want = low
	}
	if want > high {
		want = high
	}
	if want == before {
		return models.Adjustment{}, false
	}

	weights := make([]float64, len(zones))
	for i, z := range zones {
		weights[i] = float64(z.Counts[models.MEC])
	}
	if before == 0 {
		// no zone needed MEC yet: hand it out where the specialists are
		for i, z := range zones {
			weights[i] = float64(z.Counts.Specialists())
		}
	}

	for i, n := range apportion(want, weights) {
		setCount(zones[i].Counts, models.MEC, n)
	}

	return models.Adjustment{Stage: StageRatio, PersonnelType: models.MEC, Before: before, After: want}, true
}

// apportion splits total across weights with the largest remainder method.
// The result sums to exactly total; ties go to the earlier index.
func apportion(total int, weights []float64) []int {
	shares := make([]int, len(weights))
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if total <= 0 || sum <= 0 {
		return shares
	}

	type remainder struct {
		index int
		frac  float64
	}
	remainders := make([]remainder, 0, len(weights))
	assigned := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		exact := float64(total) * w / sum
		floor := math.Floor(exact)
		shares[i] = int(floor)
		assigned += shares[i]
		remainders = append(remainders, remainder{index: i, frac: exact - floor})
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].frac > remainders[b].frac
	})
	for k := 0; assigned < total && len(remainders) > 0; k = (k + 1) % len(remainders) {
		shares[remainders[k].index]++
		assigned++
	}
	return shares
}

func typeTotal(zones []models.PerZoneManpower, t models.PersonnelType) int {
	total := 0
	for _, z := range zones {
		total += z.Counts[t]
	}
	return total
}

func setCount(c models.Counts, t models.PersonnelType, n int) {
	if n <= 0 {
		delete(c, t)
		return
	}
	c[t] = n
}

// Totals sums calibrated counts per type over all zones. Every type is
// present, with zero when no zone needs it.
func Totals(zones []models.PerZoneManpower) models.Counts {
	totals := make(models.Counts, len(models.AllPersonnelTypes))
	for _, t := range models.AllPersonnelTypes {
		totals[t] = typeTotal(zones, t)
	}
	return totals
}
