package benchmark

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const maxLineSize = 1 << 20

// ParseFile reads and parses the log at path.
func ParseFile(path string, schema Schema) (*ResultTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark log: %w", err)
	}
	defer f.Close()
	return Parse(f, schema)
}

// Parse reads a whole log and parses it.
func Parse(r io.Reader, schema Schema) (*ResultTable, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read benchmark log: %w", err)
	}
	return ParseLines(lines, schema)
}

// ParseLines builds a ResultTable from the lines of a log.
func ParseLines(lines []string, schema Schema) (*ResultTable, error) {
	variants, err := findVariants(lines, schema)
	if err != nil {
		return nil, err
	}

	files, err := findFiles(lines, schema)
	if err != nil {
		return nil, err
	}

	table := NewResultTable(files, variants)
	markers := make(map[TestFile]int, len(files))

	for i, line := range lines {
		file, ok := fileMarker(line, schema)
		if !ok {
			continue
		}
		markers[file] = i + 1

		last := i + schema.RowOffset + len(variants) - 1
		if last >= len(lines) {
			return nil, parseErr(i+1, ErrBlockTruncated,
				"%q needs %d result rows, log ends at line %d", file, len(variants), len(lines))
		}

		for k := range variants {
			idx := i + schema.RowOffset + k
			variant, metrics, err := parseRow(lines[idx], idx+1, schema)
			if err != nil {
				return nil, err
			}
			if schema.Strict && variant != variants[k] {
				return nil, parseErr(idx+1, ErrVariantMismatch,
					"expected %q, found %q", variants[k], variant)
			}
			table.Set(file, variant, metrics)
		}
	}

	for _, f := range files {
		for _, v := range variants {
			if !table.Has(f, v) {
				return nil, parseErr(markers[f], ErrMissingMeasurement,
					"no row for variant %q in %q", v, f)
			}
		}
	}

	return table, nil
}

// findVariants reads the variant names from the header block.
func findVariants(lines []string, schema Schema) ([]TestVariant, error) {
	if len(lines) < schema.HeaderLines {
		return nil, parseErr(0, ErrHeaderTooShort,
			"log has %d lines, header needs %d", len(lines), schema.HeaderLines)
	}

	variants := make([]TestVariant, 0, schema.VariantCount())
	for i := schema.HeaderSkip; i < schema.HeaderLines; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			return nil, parseErr(i+1, ErrHeaderTooShort, "header line names no variant")
		}
		variants = append(variants, TestVariant(fields[0]))
	}
	return variants, nil
}

// findFiles lists the test files in first-seen order.
func findFiles(lines []string, schema Schema) ([]TestFile, error) {
	var files []TestFile
	seen := make(map[TestFile]bool)
	for i, line := range lines {
		file, ok := fileMarker(line, schema)
		if !ok {
			continue
		}
		if seen[file] {
			if schema.Strict {
				return nil, parseErr(i+1, ErrDuplicateFile, "%q", file)
			}
			continue
		}
		seen[file] = true
		files = append(files, file)
	}
	return files, nil
}

func fileMarker(line string, schema Schema) (TestFile, bool) {
	rest, ok := strings.CutPrefix(line, schema.FilePrefix)
	if !ok {
		return "", false
	}
	return TestFile(strings.TrimSpace(rest)), true
}

func parseRow(line string, lineNo int, schema Schema) (TestVariant, MetricSet, error) {
	fields := strings.Fields(line)
	if len(fields) < schema.minTokens() {
		return "", MetricSet{}, parseErr(lineNo, ErrShortRow,
			"want at least %d columns, got %d", schema.minTokens(), len(fields))
	}

	var ms MetricSet
	targets := []struct {
		col int
		dst *float64
	}{
		{schema.MemUseColumn, &ms.MemUse},
		{schema.BytesPerCPCol, &ms.BytesPerCodepoint},
		{schema.CPPerUSColumn, &ms.CodepointsPerMicrosecond},
		{schema.GBPerSecColumn, &ms.GBPerSec},
	}
	for _, t := range targets {
		v, err := strconv.ParseFloat(fields[t.col], 64)
		if err != nil {
			return "", MetricSet{}, parseErr(lineNo, ErrBadNumber, "column %d: %q", t.col, fields[t.col])
		}
		*t.dst = v
	}

	return TestVariant(fields[schema.NameColumn]), ms, nil
}
