// Package metrics provides Prometheus observability metrics for the manpower planner.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// PersonnelRequired tracks the calibrated headcount of the last report by type.
var PersonnelRequired = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "manpower",
	Name:      "personnel_required",
	Help:      "Calibrated headcount of the last calculated work package by personnel type",
}, []string{"personnel_type"})

// EstimatedDurationDays tracks the duration estimate of the last report.
var EstimatedDurationDays = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "manpower",
	Name:      "estimated_duration_days",
	Help:      "Estimated working days of the last calculated work package",
})

// WorkPackageHours tracks the total man-hours of the last report.
var WorkPackageHours = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "manpower",
	Name:      "work_package_hours",
	Help:      "Total man-hours of the last calculated work package",
})

// CalibrationAdjustmentsTotal counts calibration changes by stage.
// A high ratio count means raw allocations rarely satisfy the MEC band.
var CalibrationAdjustmentsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "manpower",
	Name:      "calibration_adjustments_total",
	Help:      "Calibration adjustments applied, by stage",
}, []string{"stage"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// TasksNormalizedTotal tracks rows passed through the normalizer.
var TasksNormalizedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "normalizer",
	Name:      "tasks_total",
	Help:      "Total task rows normalized",
})

// DefaultedHoursTotal tracks rows whose hours were missing or falsy.
var DefaultedHoursTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "normalizer",
	Name:      "defaulted_hours_total",
	Help:      "Task rows that received the default hour value",
})

// MECFallbacksTotal tracks tasks that matched no zone or keyword rule.
// A rising rate means the classification tables miss common task titles.
var MECFallbacksTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "manpower",
	Name:      "mec_fallbacks_total",
	Help:      "Tasks classified as MEC because no rule matched",
})

// CalculationErrorsTotal tracks failed manpower calculations.
var CalculationErrorsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "manpower",
	Name:      "calculation_errors_total",
	Help:      "Manpower calculations that failed",
})

// CalculationDurationSeconds tracks time to run the manpower pipeline.
var CalculationDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "manpower",
	Name:      "duration_seconds",
	Help:      "Time taken to calculate a manpower report",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ZonesProcessed tracks number of zones per calculation.
var ZonesProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "manpower",
	Name:      "zones_processed",
	Help:      "Number of zones per manpower calculation",
	Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
})

// ParserRowsTotal tracks spreadsheet rows read by file format.
var ParserRowsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "rows_total",
	Help:      "Spreadsheet rows read, by file format",
}, []string{"format"})

// ParserErrorsTotal tracks spreadsheet read errors by file format.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Spreadsheet read errors, by file format",
}, []string{"format"})

// AdvisorRequestsTotal tracks generative model calls by operation and outcome.
var AdvisorRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "advisor",
	Name:      "requests_total",
	Help:      "Generative model requests by operation and outcome",
}, []string{"operation", "outcome"})

// AdvisorDurationSeconds tracks the round trip of generative model calls.
var AdvisorDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "advisor",
	Name:      "duration_seconds",
	Help:      "Generative model round trip time by operation",
	Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
}, []string{"operation"})

// StoreRequestsTotal tracks remote work-log store calls by method and outcome.
var StoreRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "worklog_store",
	Name:      "requests_total",
	Help:      "Remote work-log store requests by method and outcome",
}, []string{"method", "outcome"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetReportGauges resets the per-report gauges before a new calculation.
// Call this at the start of manpower.Calculate.
func ResetReportGauges() {
	PersonnelRequired.Reset()
	EstimatedDurationDays.Set(0)
	WorkPackageHours.Set(0)
}
