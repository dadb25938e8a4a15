package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogtools/internal/benchmark"
	"blogtools/internal/chart"
	"blogtools/internal/config"
	"blogtools/internal/db"
	"blogtools/internal/report"
	"blogtools/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

var showSummary bool

// storeFactory opens the configured run history. Tests replace it.
var storeFactory = func() (benchmark.Store, error) {
	return db.NewStore(db.StoreConfig{
		Type:             viper.GetString("history.type"),
		ConnectionString: viper.GetString("history.dsn"),
	})
}

// now is the clock used to timestamp stored runs.
var now = time.Now

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chartgen <logfile>",
	Short: "Turn a utf8 benchmark log into CSV tables and charts",
	Long: `chartgen parses a benchmark log, writes eight CSV tables (memory use,
GB/sec, bytes per codepoint, and bytes per codepoint against codepoints per
microsecond, each with and without the std:: baselines) into
<output-root>/<log name>_charts/, and renders one PNG per table.`,
	Args:              cobra.ExactArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runReport,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	writeMetrics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")
	rootCmd.PersistentFlags().Bool("strict", false, "Cross-check row names against the header and reject repeated test files")
	rootCmd.PersistentFlags().String("baseline-prefix", benchmark.DefaultBaselinePrefix, "Variants with this prefix are baselines and left out of the no-std charts")
	rootCmd.PersistentFlags().String("history-type", "sqlite", "Run history backend (sqlite, postgres, json)")
	rootCmd.PersistentFlags().String("history-dsn", db.DefaultPath, "Run history file path or Postgres DSN")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write run metrics in Prometheus textfile format")

	rootCmd.Flags().String("renderer", "wcchart", "Chart renderer (wcchart, builtin, none)")
	rootCmd.Flags().String("wcchart", chart.DefaultWCChartPath, "Path to the wcchart binary")
	rootCmd.Flags().String("output-root", report.DefaultOutputRoot, "Directory that receives <log name>_charts/")
	rootCmd.Flags().Bool("history", false, "Record the parsed run in the run history")
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "Print the best candidate against the best baseline per test file")
}

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = map[string]string{
	"verbose":                "verbose",
	"log_file":               "log-file",
	"report.strict":          "strict",
	"report.baseline_prefix": "baseline-prefix",
	"report.output_root":     "output-root",
	"chart.renderer":         "renderer",
	"chart.wcchart_path":     "wcchart",
	"history.enabled":        "history",
	"history.type":           "history-type",
	"history.dsn":            "history-dsn",
	"metrics.file":           "metrics-file",
}

// initConfig reads in config file and ENV variables, then binds the flags
// of the running command on top.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Load(cfgFile); err != nil {
		return err
	}

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := config.ValidateConfig(); err != nil {
		return err
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
	return nil
}

func writeMetrics() {
	path := viper.GetString("metrics.file")
	if path == "" {
		return
	}
	if err := telemetry.WriteMetricsFile(path); err != nil {
		telemetry.LogError("Failed to write metrics file", err, "path", path)
	}
}

func parseLog(path string) (*benchmark.ResultTable, error) {
	schema := benchmark.DefaultSchema()
	schema.Strict = viper.GetBool("report.strict")

	table, err := benchmark.ParseFile(path, schema)
	if err != nil {
		telemetry.TrackParseError()
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	telemetry.LogDebug("Parsed benchmark log", "path", path, "files", len(table.Files), "variants", len(table.Variants))
	return table, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	logPath := args[0]

	table, err := parseLog(logPath)
	if err != nil {
		return err
	}

	renderer, err := chart.New(viper.GetString("chart.renderer"), viper.GetString("chart.wcchart_path"), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	classifier := benchmark.NewClassifier(viper.GetString("report.baseline_prefix"))
	gen := report.NewGenerator(viper.GetString("report.output_root"), classifier, renderer)

	res, err := gen.Generate(cmd.Context(), table, logPath)
	if err != nil {
		return err
	}
	telemetry.LogInfo("Generated charts",
		"dir", res.Dir,
		"csv_files", len(res.CSVFiles),
		"images", len(res.Images),
		"render_failures", res.RenderFailures)

	if showSummary {
		if err := report.WriteSummary(cmd.OutOrStdout(), table, classifier); err != nil {
			return err
		}
	}

	if viper.GetBool("history.enabled") {
		return saveRun(report.SourceName(logPath), table)
	}
	return nil
}

func saveRun(source string, table *benchmark.ResultTable) error {
	store, err := storeFactory()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	if err := store.Save(benchmark.NewRun(source, table, now())); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	telemetry.LogInfo("Saved run", "source", source)
	return nil
}
