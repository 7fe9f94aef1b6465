package manpower

import "aviation-ops/models"

// EstimateDuration converts the total hours of all tasks into whole working
// days for the reference team: ceil(hours / (team size * hours per day)).
// Zero hours is zero days.
func EstimateDuration(tasks []models.NormalizedTask, cfg Config) int {
	total := TotalHours(tasks)
	capacity := DailyCapacity(cfg)
	if total <= 0 || capacity <= 0 {
		return 0
	}
	return ceilDiv(total, capacity)
}

// DailyCapacity is the man-hours the reference team delivers per day.
func DailyCapacity(cfg Config) float64 {
	return float64(cfg.teamSize()) * cfg.HoursPerPersonDay
}
