package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historySource string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List benchmark runs recorded with --history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Show at most this many of the newest runs (0 for all)")
	historyCmd.Flags().StringVar(&historySource, "source", "", "Only show runs of this log name")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := storeFactory()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	runs, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load run history: %w", err)
	}

	if historySource != "" {
		filtered := runs[:0]
		for _, r := range runs {
			if r.Source == historySource {
				filtered = append(filtered, r)
			}
		}
		runs = filtered
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	if historyLimit > 0 && len(runs) > historyLimit {
		runs = runs[len(runs)-historyLimit:]
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tRECORDED\tFILES\tVARIANTS\tMEASUREMENTS")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Source, r.Timestamp.Local().Format(time.DateTime), len(r.Files), len(r.Variants), len(r.Measurements))
	}
	return w.Flush()
}
