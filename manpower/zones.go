package manpower

import (
	"aviation-ops/models"
	"math"
	"strings"
)

// GroupByZone buckets tasks by zone value. Buckets appear in the order their
// zone was first seen and tasks keep their input order within a bucket.
func GroupByZone(tasks []models.NormalizedTask, cfg Config) []models.ZoneBucket {
	buckets := make([]models.ZoneBucket, 0)
	index := make(map[models.Value]int)

	for _, task := range tasks {
		zone := task.Zone
		if cfg.MergeNumericZones {
			zone = canonicalZone(zone)
		}

		i, ok := index[zone]
		if !ok {
			i = len(buckets)
			index[zone] = i
			buckets = append(buckets, models.ZoneBucket{Zone: zone})
		}
		buckets[i].TotalHours += task.Hours
		buckets[i].Tasks = append(buckets[i].Tasks, task)
	}

	return buckets
}

// canonicalZone turns integral numeric zones into their string form.
func canonicalZone(v models.Value) models.Value {
	switch v.Kind {
	case models.KindNumber:
		if v.Num == math.Trunc(v.Num) {
			return models.String(v.String())
		}
		return v
	case models.KindString:
		return models.String(strings.TrimSpace(v.Str))
	default:
		return v
	}
}

// TotalHours sums task hours in input order.
func TotalHours(tasks []models.NormalizedTask) float64 {
	total := 0.0
	for _, t := range tasks {
		total += t.Hours
	}
	return total
}
