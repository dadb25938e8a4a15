package benchmark

import (
	"fmt"
	"time"
)

// TestFile identifies one input text corpus, e.g. "chinese.txt".
type TestFile string

// TestVariant identifies one implementation under test, e.g. "std::wstring_convert".
type TestVariant string

// Metric selects one of the four measurements recorded per (file, variant) pair.
type Metric int

const (
	MemUse Metric = iota
	BytesPerCodepoint
	CodepointsPerMicrosecond
	GBPerSec
)

var metricKeys = [...]string{
	MemUse:                   "memuse",
	BytesPerCodepoint:        "byte_per_cp",
	CodepointsPerMicrosecond: "cp_per_us",
	GBPerSec:                 "gb_sec",
}

func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricKeys) {
		return fmt.Sprintf("metric(%d)", int(m))
	}
	return metricKeys[m]
}

// MetricSet holds the four measurements for one (file, variant) pair.
type MetricSet struct {
	MemUse                   float64 `json:"memuse"`
	BytesPerCodepoint        float64 `json:"byte_per_cp"`
	CodepointsPerMicrosecond float64 `json:"cp_per_us"`
	GBPerSec                 float64 `json:"gb_sec"`
}

// Value returns the measurement selected by m.
func (s MetricSet) Value(m Metric) float64 {
	switch m {
	case MemUse:
		return s.MemUse
	case BytesPerCodepoint:
		return s.BytesPerCodepoint
	case CodepointsPerMicrosecond:
		return s.CodepointsPerMicrosecond
	case GBPerSec:
		return s.GBPerSec
	}
	panic(fmt.Sprintf("benchmark: invalid metric %d", int(m)))
}

// ResultTable maps every test file to the measurements of every variant.
// It is filled by the parser and read-only afterwards.
type ResultTable struct {
	Files    []TestFile
	Variants []TestVariant

	results map[TestFile]map[TestVariant]MetricSet
}

// NewResultTable creates an empty table with the given file and variant order.
func NewResultTable(files []TestFile, variants []TestVariant) *ResultTable {
	t := &ResultTable{
		Files:    files,
		Variants: variants,
		results:  make(map[TestFile]map[TestVariant]MetricSet, len(files)),
	}
	for _, f := range files {
		t.results[f] = make(map[TestVariant]MetricSet, len(variants))
	}
	return t
}

// Set stores the measurements for a pair.
func (t *ResultTable) Set(file TestFile, variant TestVariant, m MetricSet) {
	row, ok := t.results[file]
	if !ok {
		row = make(map[TestVariant]MetricSet)
		t.results[file] = row
	}
	row[variant] = m
}

// Lookup returns the measurements for a pair or ErrMissingMeasurement.
func (t *ResultTable) Lookup(file TestFile, variant TestVariant) (MetricSet, error) {
	if m, ok := t.results[file][variant]; ok {
		return m, nil
	}
	return MetricSet{}, fmt.Errorf("%w: file %q variant %q", ErrMissingMeasurement, file, variant)
}

// Has reports whether a pair has been measured.
func (t *ResultTable) Has(file TestFile, variant TestVariant) bool {
	_, ok := t.results[file][variant]
	return ok
}

// Measurement is one flattened row of a ResultTable.
type Measurement struct {
	File    TestFile    `json:"file"`
	Variant TestVariant `json:"variant"`
	MetricSet
}

// Measurements flattens the table in file, then variant order. Pairs that
// were never measured are skipped.
func (t *ResultTable) Measurements() []Measurement {
	var out []Measurement
	for _, f := range t.Files {
		for _, v := range t.Variants {
			if m, ok := t.results[f][v]; ok {
				out = append(out, Measurement{File: f, Variant: v, MetricSet: m})
			}
		}
	}
	return out
}

// Run is one parsed log as stored in the run history.
type Run struct {
	ID           int64         `json:"id,omitempty"`
	Source       string        `json:"source"` // log base name, e.g. "utf8_bench"
	Timestamp    time.Time     `json:"timestamp"`
	Files        []TestFile    `json:"files"`
	Variants     []TestVariant `json:"variants"`
	Measurements []Measurement `json:"measurements"`
}

// NewRun captures a table for the history store.
func NewRun(source string, table *ResultTable, ts time.Time) Run {
	return Run{
		Source:       source,
		Timestamp:    ts,
		Files:        append([]TestFile(nil), table.Files...),
		Variants:     append([]TestVariant(nil), table.Variants...),
		Measurements: table.Measurements(),
	}
}

// Table rebuilds the ResultTable captured by the run.
func (r Run) Table() *ResultTable {
	t := NewResultTable(r.Files, r.Variants)
	for _, m := range r.Measurements {
		t.Set(m.File, m.Variant, m.MetricSet)
	}
	return t
}
