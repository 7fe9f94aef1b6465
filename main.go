package main

import (
	"aviation-ops/config"
	"aviation-ops/metrics"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	timeout     time.Duration
	metricsAddr string
	pushGateway string
	wait        bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aviation-ops",
	Short: "Maintenance manpower estimation and work-log dashboard",
	Long: `aviation-ops turns maintenance task exports into a calibrated manpower
report (headcount per zone and personnel type, plus duration in days), and
aggregates historical work logs into dashboard rows and KPIs.

The numeric report is always computed deterministically; the optional
Gemini advisor only narrates it and reviews work packs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zc := zap.NewProductionConfig()
		if cfg.Logging.Level != "" {
			level, err := zapcore.ParseLevel(cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("failed to parse log level: %w", err)
			}
			zc.Level = zap.NewAtomicLevelAt(level)
		}
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		startMetricsServer()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		finishMetrics(cmd)
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Timeout for remote calls")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	rootCmd.PersistentFlags().StringVar(&pushGateway, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	rootCmd.PersistentFlags().BoolVar(&wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	rootCmd.AddCommand(manpowerCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(workpackCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext bounds remote calls made by a command.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func startMetricsServer() {
	if metricsAddr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		logger.Info("Metrics server listening", zap.String("addr", metricsAddr+"/metrics"))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()
}

// finishMetrics pushes to the gateway and keeps the process alive for
// scraping when asked to.
func finishMetrics(cmd *cobra.Command) {
	if pushGateway != "" {
		if err := push.New(pushGateway, "aviation_ops").Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("Error pushing to Pushgateway", zap.Error(err))
		} else {
			logger.Info("Metrics successfully pushed to Pushgateway")
		}
	}

	if wait && metricsAddr != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Fprintln(cmd.ErrOrStderr(), "\nExiting...")
	} else if metricsAddr != "" && pushGateway == "" {
		// Small delay to allow a final scrape when not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
}
