package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"blogtools/internal/benchmark"
	"blogtools/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	compareThreshold float64
	compareSave      bool
	compareFail      bool
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	slowerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fasterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

var compareCmd = &cobra.Command{
	Use:   "compare <logfile>",
	Short: "Compare a benchmark log against the latest recorded run of the same name",
	Long: `Parses the log and diffs GB/sec and memory use per test file and variant
against the newest run in the history whose log had the same base name.
A GB/sec drop larger than --threshold percent is reported as SLOWER.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 5.0, "Percentage change in GB/sec treated as noise")
	compareCmd.Flags().BoolVar(&compareSave, "save", false, "Record this run after comparing")
	compareCmd.Flags().BoolVar(&compareFail, "fail-on-regression", false, "Exit non-zero when any variant is SLOWER")
}

func runCompare(cmd *cobra.Command, args []string) error {
	logPath := args[0]
	source := report.SourceName(logPath)

	table, err := parseLog(logPath)
	if err != nil {
		return err
	}
	current := benchmark.NewRun(source, table, now())

	store, err := storeFactory()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	previous, err := store.LoadLatest(source)
	if err != nil {
		return fmt.Errorf("failed to load previous run: %w", err)
	}

	regressions := 0
	if previous == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No previous run recorded for %s.\n", source)
	} else {
		regressions = printComparison(cmd, previous, current, compareThreshold)
	}

	if compareSave {
		if err := store.Save(current); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
	}

	if compareFail && regressions > 0 {
		return fmt.Errorf("%d variant(s) slower than the previous run", regressions)
	}
	return nil
}

// printComparison writes one row per pair of the current run and returns
// the number of SLOWER rows.
func printComparison(cmd *cobra.Command, previous *benchmark.Run, current benchmark.Run, threshold float64) int {
	comparisons := benchmark.Compare(*previous, current)
	type pair struct {
		file    benchmark.TestFile
		variant benchmark.TestVariant
	}
	matched := make(map[pair]bool, len(comparisons))
	for _, c := range comparisons {
		matched[pair{c.File, c.Variant}] = true
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Comparing against run %d (%s)\n\n", previous.ID, previous.Timestamp.Local().Format(time.DateTime))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tVARIANT\tGB/S\tDIFF %\tMEMUSE DIFF %\tSTATUS")

	regressions := 0
	for _, c := range comparisons {
		status := passStyle.Render("PASS")
		switch {
		case c.GBPerSecDiff < -threshold:
			status = slowerStyle.Render("SLOWER")
			regressions++
		case c.GBPerSecDiff > threshold:
			status = fasterStyle.Render("FASTER")
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%+.2f%%\t%+.2f%%\t%s\n",
			c.File, c.Variant, c.Curr.GBPerSec, c.GBPerSecDiff, c.MemUseDiff, status)
	}
	for _, m := range current.Measurements {
		if !matched[pair{m.File, m.Variant}] {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t-\t-\t%s\n", m.File, m.Variant, m.GBPerSec, newStyle.Render("NEW"))
		}
	}
	w.Flush()

	return regressions
}
