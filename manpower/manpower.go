// Package manpower turns maintenance task rows into a calibrated headcount
// report: normalize, group by zone, allocate personnel, calibrate, and
// estimate duration. Every step is a pure function of its input and Config.
package manpower

import (
	"aviation-ops/metrics"
	"aviation-ops/models"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Option configures Calculate.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for debug tracing of a calculation.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Calculate runs the whole pipeline over raw task rows.
func Calculate(raw []models.RawTask, cfg Config, opts ...Option) (*models.CalibratedReport, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		metrics.CalculationErrorsTotal.Inc()
		return nil, err
	}

	start := time.Now()
	metrics.ResetReportGauges()

	tasks, defaulted, err := normalize(raw, cfg)
	if err != nil {
		metrics.CalculationErrorsTotal.Inc()
		return nil, fmt.Errorf("normalize tasks: %w", err)
	}
	metrics.TasksNormalizedTotal.Add(float64(len(tasks)))
	metrics.DefaultedHoursTotal.Add(float64(defaulted))
	if defaulted > 0 {
		o.logger.Debug("Defaulted missing task hours",
			zap.Int("rows", defaulted),
			zap.Float64("default_hours", cfg.DefaultHours))
	}

	buckets := GroupByZone(tasks, cfg)
	allocations := make([]models.PerZoneManpower, 0, len(buckets))
	for _, bucket := range buckets {
		alloc, fallbacks := allocate(bucket, cfg)
		if fallbacks > 0 {
			metrics.MECFallbacksTotal.Add(float64(fallbacks))
			o.logger.Debug("Unclassified tasks fell back to MEC",
				zap.String("zone", models.ZoneLabel(bucket.Zone)),
				zap.Int("tasks", fallbacks))
		}
		o.logger.Debug("Allocated zone",
			zap.String("zone", models.ZoneLabel(bucket.Zone)),
			zap.Float64("hours", bucket.TotalHours),
			zap.String("raw", ManpowerLine(alloc.Counts)))
		allocations = append(allocations, alloc)
	}

	perZone, adjustments := Calibrate(allocations, cfg)
	for _, adj := range adjustments {
		metrics.CalibrationAdjustmentsTotal.WithLabelValues(adj.Stage).Inc()
		o.logger.Debug("Calibrated personnel total",
			zap.String("stage", adj.Stage),
			zap.String("type", string(adj.PersonnelType)),
			zap.Int("before", adj.Before),
			zap.Int("after", adj.After))
	}

	report := &models.CalibratedReport{
		PerZone:               perZone,
		TotalsByType:          Totals(perZone),
		EstimatedDurationDays: EstimateDuration(tasks, cfg),
		TotalHours:            TotalHours(tasks),
		TaskCount:             len(tasks),
		MajorItems:            MajorItems(tasks, cfg),
		Adjustments:           adjustments,
	}

	for t, n := range report.TotalsByType {
		metrics.PersonnelRequired.WithLabelValues(string(t)).Set(float64(n))
	}
	metrics.EstimatedDurationDays.Set(float64(report.EstimatedDurationDays))
	metrics.WorkPackageHours.Set(report.TotalHours)
	metrics.ZonesProcessed.Observe(float64(len(perZone)))
	metrics.CalculationDurationSeconds.Observe(time.Since(start).Seconds())

	o.logger.Info("Calculated manpower",
		zap.Int("tasks", report.TaskCount),
		zap.Int("zones", len(report.PerZone)),
		zap.Int("days", report.EstimatedDurationDays),
		zap.String("totals", ManpowerLine(report.TotalsByType)))

	return report, nil
}
