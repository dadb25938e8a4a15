package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"blogtools/internal/benchmark"
)

// FileSummary compares the fastest candidate with the fastest baseline for
// one test file.
type FileSummary struct {
	File          benchmark.TestFile
	BestCandidate benchmark.TestVariant
	CandidateGBs  float64
	BestBaseline  benchmark.TestVariant
	BaselineGBs   float64
}

// Speedup is candidate throughput over baseline throughput, 0 when either
// side is missing.
func (s FileSummary) Speedup() float64 {
	if s.BestCandidate == "" || s.BestBaseline == "" || s.BaselineGBs == 0 {
		return 0
	}
	return s.CandidateGBs / s.BaselineGBs
}

// Summarize picks the fastest candidate and baseline per file by GB/s.
func Summarize(table *benchmark.ResultTable, classifier benchmark.Classifier) ([]FileSummary, error) {
	out := make([]FileSummary, 0, len(table.Files))
	for _, f := range table.Files {
		s := FileSummary{File: f}
		var err error
		s.BestCandidate, s.CandidateGBs, err = fastest(table, f, classifier.Candidates(table.Variants))
		if err != nil {
			return nil, err
		}
		s.BestBaseline, s.BaselineGBs, err = fastest(table, f, classifier.Baselines(table.Variants))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func fastest(table *benchmark.ResultTable, f benchmark.TestFile, variants []benchmark.TestVariant) (benchmark.TestVariant, float64, error) {
	var best benchmark.TestVariant
	var gbs float64
	for _, v := range variants {
		m, err := table.Lookup(f, v)
		if err != nil {
			return "", 0, err
		}
		if best == "" || m.GBPerSec > gbs {
			best, gbs = v, m.GBPerSec
		}
	}
	return best, gbs, nil
}

// WriteSummary prints the per-file summary as an aligned table.
func WriteSummary(w io.Writer, table *benchmark.ResultTable, classifier benchmark.Classifier) error {
	summaries, err := Summarize(table, classifier)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FILE\tBEST CANDIDATE\tGB/S\tBEST BASELINE\tGB/S\tSPEEDUP")
	for _, s := range summaries {
		speedup := "-"
		if x := s.Speedup(); x > 0 {
			speedup = fmt.Sprintf("%.2fx", x)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%.2f\t%s\n",
			s.File, orDash(s.BestCandidate), s.CandidateGBs, orDash(s.BestBaseline), s.BaselineGBs, speedup)
	}
	return tw.Flush()
}

func orDash(v benchmark.TestVariant) string {
	if v == "" {
		return "-"
	}
	return string(v)
}
