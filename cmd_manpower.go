package main

import (
	"aviation-ops/advisor"
	"aviation-ops/formatter"
	"aviation-ops/manpower"
	"aviation-ops/models"
	"aviation-ops/parser"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	manpowerInput     string
	manpowerFormat    string
	manpowerSummarize bool
)

var manpowerCmd = &cobra.Command{
	Use:   "manpower",
	Short: "Calculate calibrated manpower and duration for a task export",
	Long: `Reads a task list (.xlsx, .xls or .csv), groups tasks by zone, allocates
personnel types, calibrates the counts and estimates the duration in days.

With --summarize the Gemini advisor writes the narrative summary; its own
per-zone numbers are only compared against the calculated report.`,
	Args: cobra.NoArgs,
	RunE: runManpower,
}

func init() {
	manpowerCmd.Flags().StringVarP(&manpowerInput, "input", "i", "", "Task export file (required)")
	manpowerCmd.Flags().StringVarP(&manpowerFormat, "format", "f", "text", "Output format: text|json|csv")
	manpowerCmd.Flags().BoolVar(&manpowerSummarize, "summarize", false, "Ask the Gemini advisor for the summary (needs GEMINI_API_KEY)")
	manpowerCmd.MarkFlagRequired("input")
}

func runManpower(cmd *cobra.Command, args []string) error {
	if err := validateFormat(manpowerFormat); err != nil {
		return err
	}

	raw, err := readTasks(manpowerInput)
	if err != nil {
		return err
	}

	mc, err := cfg.ToManpower()
	if err != nil {
		return err
	}

	report, err := manpower.Calculate(raw, mc, manpower.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("error calculating manpower: %w", err)
	}

	fileName := filepath.Base(manpowerInput)
	summary := manpower.Summary(report, fileName, mc)
	if manpowerSummarize {
		summary = adviseSummary(cmd, raw, report, fileName, mc, summary)
	}

	out := cmd.OutOrStdout()
	switch manpowerFormat {
	case "json":
		fmt.Fprintln(out, formatter.FormatJSON(report, summary))
	case "csv":
		fmt.Fprint(out, formatter.FormatCSV(report))
	default:
		fmt.Fprint(out, formatter.FormatText(report, summary))
	}
	return nil
}

func readTasks(path string) ([]models.RawTask, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	rows, err := parser.ReadRows(file, path)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	return parser.RawTasks(rows), nil
}

// adviseSummary returns the advisor's summary, or fallback when the advisor
// is not configured or fails. Disagreements with the report are logged.
func adviseSummary(cmd *cobra.Command, raw []models.RawTask, report *models.CalibratedReport, fileName string, mc manpower.Config, fallback string) string {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	g, err := advisor.NewGemini(ctx, cfg.Advisor.APIKey,
		advisor.WithModel(cfg.Advisor.Model),
		advisor.WithTimeout(cfg.AdvisorTimeout()),
		advisor.WithManpowerConfig(mc),
		advisor.WithLogger(logger))
	if err != nil {
		logger.Warn("Advisor unavailable, using calculated summary", zap.Error(err))
		return fallback
	}

	tasks, err := manpower.Normalize(raw, mc)
	if err != nil {
		return fallback
	}

	suggestion, err := g.Summarize(ctx, tasks, report, fileName)
	if err != nil {
		logger.Warn("Advisor failed, using calculated summary", zap.Error(err))
		return fallback
	}

	for _, d := range advisor.Reconcile(report, suggestion) {
		logger.Info("Advisor disagrees with calculated manpower",
			zap.String("zone", d.Zone),
			zap.String("personnel_type", string(d.PersonnelType)),
			zap.Int("suggested", d.Suggested),
			zap.Int("computed", d.Computed))
	}
	return suggestion.Summary
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "csv":
		return nil
	default:
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", format)
	}
}
