package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"blogtools/internal/benchmark"
	"blogtools/internal/chart"
)

// DefaultOutputRoot is the directory, relative to the working directory,
// that holds one chart directory per log.
const DefaultOutputRoot = "local"

// Chart is one CSV table and the image rendered from it.
type Chart struct {
	Name  string // file base name without extension
	Kind  chart.Kind
	Title string

	Metric benchmark.Metric // bar charts
	X, Y   benchmark.Metric // scatter charts

	// CandidatesOnly drops the baseline variants.
	CandidatesOnly bool
}

func (c Chart) CSVName() string   { return c.Name + ".csv" }
func (c Chart) ImageName() string { return c.Name + ".png" }

// DefaultCharts returns the eight charts of the utf8 lookup write-up.
func DefaultCharts() []Chart {
	const scatterTitle = "Bytes/Codepoint vs 10000 Codepoints/us"
	return []Chart{
		{Name: "memuse_all", Kind: chart.Bar, Title: "Memory use", Metric: benchmark.MemUse},
		{Name: "memuse_no_std", Kind: chart.Bar, Title: "Memory use", Metric: benchmark.MemUse, CandidatesOnly: true},
		{Name: "gb_per_sec", Kind: chart.Bar, Title: "GB/sec", Metric: benchmark.GBPerSec},
		{Name: "gb_per_sec_no_std", Kind: chart.Bar, Title: "GB/sec", Metric: benchmark.GBPerSec, CandidatesOnly: true},
		{Name: "bytes_per_cp", Kind: chart.Bar, Title: "Bytes/Codepoint", Metric: benchmark.BytesPerCodepoint},
		{Name: "bytes_per_cp_no_std", Kind: chart.Bar, Title: "Bytes/Codepoint", Metric: benchmark.BytesPerCodepoint, CandidatesOnly: true},
		{Name: "bpcp_vs_cppus", Kind: chart.Scatter, Title: scatterTitle, X: benchmark.BytesPerCodepoint, Y: benchmark.CodepointsPerMicrosecond},
		{Name: "bpcp_vs_cppus_no_std", Kind: chart.Scatter, Title: scatterTitle, X: benchmark.BytesPerCodepoint, Y: benchmark.CodepointsPerMicrosecond, CandidatesOnly: true},
	}
}

// OutputDir returns root/<log base name without extension>_charts.
func OutputDir(root, logPath string) string {
	return filepath.Join(root, SourceName(logPath)+"_charts")
}

// SourceName is the log's base name without its extension.
func SourceName(logPath string) string {
	base := filepath.Base(logPath)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// Render writes the chart's CSV table into memory.
func (c Chart) Render(table *benchmark.ResultTable, classifier benchmark.Classifier) ([]byte, error) {
	variants := table.Variants
	if c.CandidatesOnly {
		variants = classifier.Candidates(variants)
	}

	var buf bytes.Buffer
	var err error
	switch c.Kind {
	case chart.Bar:
		err = WriteBar(&buf, table, variants, table.Files, c.Metric)
	case chart.Scatter:
		err = WriteScatter(&buf, table, variants, table.Files, c.X, c.Y)
	default:
		err = fmt.Errorf("unsupported chart type: %s", c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", c.Name, err)
	}
	return buf.Bytes(), nil
}
