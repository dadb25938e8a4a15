// Package report writes the benchmark CSV tables and drives chart rendering.
package report

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"blogtools/internal/benchmark"
)

// WriteBar writes the bar layout: a header row naming the variants, then one
// row per file holding the selected metric for every variant.
func WriteBar(w io.Writer, table *benchmark.ResultTable, variants []benchmark.TestVariant, files []benchmark.TestFile, metric benchmark.Metric) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(variants)+1)
	header = append(header, "")
	for _, v := range variants {
		header = append(header, string(v))
	}
	if len(variants) == 0 {
		// a lone empty field would be written as a blank line
		header = append(header, "")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range files {
		row := make([]string, 0, len(variants)+1)
		row = append(row, string(f))
		for _, v := range variants {
			m, err := table.Lookup(f, v)
			if err != nil {
				return err
			}
			row = append(row, FormatValue(m.Value(metric)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteScatter writes the scatter layout: for every file a line with its
// name, then one "variant,x,y" line per variant.
func WriteScatter(w io.Writer, table *benchmark.ResultTable, variants []benchmark.TestVariant, files []benchmark.TestFile, x, y benchmark.Metric) error {
	cw := csv.NewWriter(w)

	for _, f := range files {
		if err := cw.Write([]string{string(f)}); err != nil {
			return err
		}
		for _, v := range variants {
			m, err := table.Lookup(f, v)
			if err != nil {
				return err
			}
			rec := []string{string(v), FormatFixed(m.Value(x)), FormatFixed(m.Value(y))}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders the shortest decimal that round-trips to v. Values
// always carry a fraction or an exponent: 1.0, 0.25, 1e-05, 1.5e+16.
func FormatValue(v float64) string {
	if s, ok := formatSpecial(v); ok {
		return s
	}

	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatFixed renders v with six decimals.
func FormatFixed(v float64) string {
	if s, ok := formatSpecial(v); ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatSpecial(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "nan", true
	case math.IsInf(v, 1):
		return "inf", true
	case math.IsInf(v, -1):
		return "-inf", true
	}
	return "", false
}
