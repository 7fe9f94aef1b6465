package main

import (
	"aviation-ops/dashboard"
	"aviation-ops/formatter"
	"aviation-ops/models"
	"aviation-ops/parser"
	"aviation-ops/sheets"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dashboardInputs []string
	dashboardRemote bool
	dashboardGroup  string
	dashboardFrom   string
	dashboardTo     string
	dashboardYear   string
	dashboardFormat string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Aggregate work logs by day, month, aircraft type or airport",
	Long: `Aggregates work-log records from local files (--input, repeatable) and/or
the remote work-log store (--remote). Day and month groupings accept a
--from/--to range or a single --year; aircraft and airport groupings always
cover every record.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringSliceVarP(&dashboardInputs, "input", "i", nil, "Work-log file (.xlsx, .xls or .csv)")
	dashboardCmd.Flags().BoolVar(&dashboardRemote, "remote", false, "Fetch records from the remote work-log store")
	dashboardCmd.Flags().StringVarP(&dashboardGroup, "group", "g", "month", "Grouping: day|month|aircraft|airport")
	dashboardCmd.Flags().StringVar(&dashboardFrom, "from", "", "First date to include (YYYY-MM-DD)")
	dashboardCmd.Flags().StringVar(&dashboardTo, "to", "", "Last date to include (YYYY-MM-DD)")
	dashboardCmd.Flags().StringVar(&dashboardYear, "year", "", "Single year to include (overrides --from/--to)")
	dashboardCmd.Flags().StringVarP(&dashboardFormat, "format", "f", "text", "Output format: text|json|csv")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := validateFormat(dashboardFormat); err != nil {
		return err
	}
	group, err := dashboard.ParseGroupBy(dashboardGroup)
	if err != nil {
		return err
	}
	if len(dashboardInputs) == 0 && !dashboardRemote {
		return fmt.Errorf("either --input or --remote is required")
	}

	var records []models.WorkLog
	for _, path := range dashboardInputs {
		logs, err := readWorkLogs(path)
		if err != nil {
			return err
		}
		records = append(records, logs...)
	}

	if dashboardRemote {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		logs, err := storeClient().Fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch data from the work-log store: %w", err)
		}
		records = append(records, logs...)
	}
	logger.Debug("Loaded work logs", zap.Int("records", len(records)))

	view, err := dashboard.BuildView(records, group, dashboard.Filter{From: dashboardFrom, To: dashboardTo, Year: dashboardYear})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch dashboardFormat {
	case "json":
		fmt.Fprintln(out, formatter.FormatDashboardJSON(view))
	case "csv":
		fmt.Fprint(out, formatter.FormatDashboardCSV(view))
	default:
		fmt.Fprint(out, formatter.FormatDashboardText(view))
	}
	return nil
}

func readWorkLogs(path string) ([]models.WorkLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	rows, err := parser.ReadRows(file, path)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	logs, err := parser.WorkLogs(rows, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("error reading work logs from %s: %w", path, err)
	}
	return logs, nil
}

func storeClient() *sheets.Client {
	return sheets.New(cfg.Store.URL,
		sheets.WithTimeout(cfg.StoreTimeout()),
		sheets.WithLogger(logger))
}
