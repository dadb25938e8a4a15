package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogtools/internal/benchmark"
	"blogtools/internal/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchLog = `utf8 lookup benchmark
test text: test/texts/chinese.txt
name                  iters  time   memuse  bytes/cp  cp/us   GB/s
std::wstring_convert  100    1.5    4096    3.0       120.5   0.36
utf8_lookup           100    0.5    256     3.0       410.25  1.23
utf8_dfa              100    0.7    512     3.0       300     0.9
test text: test/texts/english.txt
name                  iters  time   memuse  bytes/cp  cp/us   GB/s
std::wstring_convert  100    1.1    4096    1.0       520     0.52
utf8_lookup           100    0.2    256     1.0       2000    2
utf8_dfa              100    0.3    512     1.0       1500    1.5
`

func parseTable(t *testing.T) *benchmark.ResultTable {
	t.Helper()
	schema := benchmark.DefaultSchema()
	schema.HeaderLines = 6
	table, err := benchmark.Parse(strings.NewReader(benchLog), schema)
	require.NoError(t, err)
	return table
}

type recordingRenderer struct {
	requests []chart.Request
	fail     map[string]bool
}

func (r *recordingRenderer) Render(ctx context.Context, req chart.Request) error {
	r.requests = append(r.requests, req)
	if r.fail[filepath.Base(req.Output)] {
		return errors.New("wcchart exited with status 1")
	}
	return os.WriteFile(req.Output, []byte("png"), 0644)
}

func TestWriteBar(t *testing.T) {
	table := parseTable(t)
	classifier := benchmark.NewClassifier(benchmark.DefaultBaselinePrefix)

	var buf bytes.Buffer
	require.NoError(t, WriteBar(&buf, table, table.Variants, table.Files, benchmark.GBPerSec))
	assert.Equal(t, ",std::wstring_convert,utf8_lookup,utf8_dfa\nchinese.txt,0.36,1.23,0.9\nenglish.txt,0.52,2.0,1.5\n", buf.String())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Len(t, strings.Split(lines[0], ","), 4)

	buf.Reset()
	require.NoError(t, WriteBar(&buf, table, classifier.Candidates(table.Variants), table.Files, benchmark.MemUse))
	assert.Equal(t, ",utf8_lookup,utf8_dfa\nchinese.txt,256.0,512.0\nenglish.txt,256.0,512.0\n", buf.String())
}

func TestWriteScatter(t *testing.T) {
	table := parseTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteScatter(&buf, table, table.Variants, table.Files, benchmark.BytesPerCodepoint, benchmark.CodepointsPerMicrosecond))

	want := "chinese.txt\n" +
		"std::wstring_convert,3.000000,120.500000\n" +
		"utf8_lookup,3.000000,410.250000\n" +
		"utf8_dfa,3.000000,300.000000\n" +
		"english.txt\n" +
		"std::wstring_convert,1.000000,520.000000\n" +
		"utf8_lookup,1.000000,2000.000000\n" +
		"utf8_dfa,1.000000,1500.000000\n"
	assert.Equal(t, want, buf.String())

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if strings.HasSuffix(line, ".txt") {
			continue
		}
		fields := strings.Split(line, ",")
		require.Len(t, fields, 3)
		assert.Contains(t, fields[1], ".")
		assert.Contains(t, fields[2], ".")
	}
}

func TestWriteBar_NoVariants(t *testing.T) {
	table := parseTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteBar(&buf, table, nil, table.Files, benchmark.GBPerSec))
	assert.Equal(t, ",\nchinese.txt\nenglish.txt\n", buf.String())
}

func TestWriteBar_QuotesNamesWithCommas(t *testing.T) {
	table := benchmark.NewResultTable([]benchmark.TestFile{"a.txt"}, []benchmark.TestVariant{"std::x", "cand<a,b>"})
	table.Set("a.txt", "std::x", benchmark.MetricSet{GBPerSec: 1})
	table.Set("a.txt", "cand<a,b>", benchmark.MetricSet{GBPerSec: 2})

	var buf bytes.Buffer
	require.NoError(t, WriteBar(&buf, table, table.Variants, table.Files, benchmark.GBPerSec))
	assert.Equal(t, ",std::x,\"cand<a,b>\"\na.txt,1.0,2.0\n", buf.String())
}

func TestWriteBar_MissingMeasurement(t *testing.T) {
	table := benchmark.NewResultTable([]benchmark.TestFile{"a.txt"}, []benchmark.TestVariant{"x"})

	var buf bytes.Buffer
	err := WriteBar(&buf, table, table.Variants, table.Files, benchmark.MemUse)
	assert.ErrorIs(t, err, benchmark.ErrMissingMeasurement)

	err = WriteScatter(&buf, table, table.Variants, table.Files, benchmark.MemUse, benchmark.GBPerSec)
	assert.ErrorIs(t, err, benchmark.ErrMissingMeasurement)
}

func TestFormatValue(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.25, "0.25"},
		{-2.5, "-2.5"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1234567, "1234567.0"},
		{1e16, "1e+16"},
		{1.5e17, "1.5e+17"},
		{a + b, "0.30000000000000004"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in), "FormatValue(%v)", tt.in)
	}
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "120.500000", FormatFixed(120.5))
	assert.Equal(t, "0.000001", FormatFixed(0.000001))
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("local", "utf8_bench_charts"), OutputDir("local", "/logs/utf8_bench.log"))
	assert.Equal(t, filepath.Join("out", "run.2020_charts"), OutputDir("out", "run.2020.txt"))
	assert.Equal(t, "noext", SourceName("noext"))
}

func TestDefaultCharts(t *testing.T) {
	var names []string
	for _, c := range DefaultCharts() {
		names = append(names, c.CSVName())
	}
	assert.Equal(t, []string{
		"memuse_all.csv", "memuse_no_std.csv",
		"gb_per_sec.csv", "gb_per_sec_no_std.csv",
		"bytes_per_cp.csv", "bytes_per_cp_no_std.csv",
		"bpcp_vs_cppus.csv", "bpcp_vs_cppus_no_std.csv",
	}, names)
}

func TestGenerator(t *testing.T) {
	table := parseTable(t)
	root := t.TempDir()
	renderer := &recordingRenderer{fail: map[string]bool{"gb_per_sec.png": true}}

	g := NewGenerator(root, benchmark.NewClassifier(benchmark.DefaultBaselinePrefix), renderer)
	res, err := g.Generate(context.Background(), table, "logs/utf8_bench.log")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "utf8_bench_charts"), res.Dir)
	assert.Len(t, res.CSVFiles, 8)
	assert.Len(t, res.Images, 7)
	assert.Equal(t, 1, res.RenderFailures)

	require.Len(t, renderer.requests, 8)
	assert.Equal(t, chart.Request{
		Kind:   chart.Bar,
		Title:  "Memory use",
		Input:  filepath.Join(res.Dir, "memuse_all.csv"),
		Output: filepath.Join(res.Dir, "memuse_all.png"),
	}, renderer.requests[0])
	assert.Equal(t, chart.Scatter, renderer.requests[7].Kind)
	assert.Equal(t, "Bytes/Codepoint vs 10000 Codepoints/us", renderer.requests[7].Title)

	noStd, err := os.ReadFile(filepath.Join(res.Dir, "gb_per_sec_no_std.csv"))
	require.NoError(t, err)
	assert.Equal(t, ",utf8_lookup,utf8_dfa\nchinese.txt,1.23,0.9\nenglish.txt,2.0,1.5\n", string(noStd))

	scatterNoStd, err := os.ReadFile(filepath.Join(res.Dir, "bpcp_vs_cppus_no_std.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(scatterNoStd), "std::")
}

func TestGenerator_Idempotent(t *testing.T) {
	table := parseTable(t)
	root := t.TempDir()
	g := NewGenerator(root, benchmark.NewClassifier(benchmark.DefaultBaselinePrefix), nil)

	first, err := g.Generate(context.Background(), table, "utf8_bench.log")
	require.NoError(t, err)
	assert.Empty(t, first.Images)

	snapshot := map[string][]byte{}
	for _, p := range first.CSVFiles {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		snapshot[p] = data
	}

	second, err := g.Generate(context.Background(), table, "utf8_bench.log")
	require.NoError(t, err)
	for _, p := range second.CSVFiles {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, snapshot[p], data, p)
	}
}

func TestGenerator_NoFilesOnTableError(t *testing.T) {
	table := benchmark.NewResultTable([]benchmark.TestFile{"a.txt"}, []benchmark.TestVariant{"x"})
	root := t.TempDir()

	g := NewGenerator(root, benchmark.NewClassifier(benchmark.DefaultBaselinePrefix), nil)
	_, err := g.Generate(context.Background(), table, "broken.log")
	assert.ErrorIs(t, err, benchmark.ErrMissingMeasurement)

	_, statErr := os.Stat(filepath.Join(root, "broken_charts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerator_Canceled(t *testing.T) {
	table := parseTable(t)
	renderer := &recordingRenderer{}
	g := NewGenerator(t.TempDir(), benchmark.NewClassifier(benchmark.DefaultBaselinePrefix), renderer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := g.Generate(ctx, table, "utf8_bench.log")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.CSVFiles, 8)
	assert.Empty(t, renderer.requests)
}

func TestSummarize(t *testing.T) {
	table := parseTable(t)
	classifier := benchmark.NewClassifier(benchmark.DefaultBaselinePrefix)

	summaries, err := Summarize(table, classifier)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, benchmark.TestVariant("utf8_lookup"), summaries[0].BestCandidate)
	assert.Equal(t, benchmark.TestVariant("std::wstring_convert"), summaries[0].BestBaseline)
	assert.InDelta(t, 1.23/0.36, summaries[0].Speedup(), 1e-9)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, table, classifier))
	assert.Contains(t, buf.String(), "BEST CANDIDATE")
	assert.Contains(t, buf.String(), "3.85x")

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, table, benchmark.NewClassifier("")))
	assert.Contains(t, buf.String(), " - ")
}
