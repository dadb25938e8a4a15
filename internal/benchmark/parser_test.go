package benchmark

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeVariantLog = `utf8 lookup benchmark
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

func threeVariantSchema() Schema {
	s := DefaultSchema()
	s.HeaderLines = 6
	return s
}

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(threeVariantLog), threeVariantSchema())
	require.NoError(t, err)

	assert.Equal(t, []TestFile{"chinese.txt", "english.txt"}, table.Files)
	assert.Equal(t, []TestVariant{"std::wstring_convert", "utf8_lookup", "utf8_dfa"}, table.Variants)

	m, err := table.Lookup("chinese.txt", "utf8_lookup")
	require.NoError(t, err)
	assert.Equal(t, MetricSet{MemUse: 256, BytesPerCodepoint: 3, CodepointsPerMicrosecond: 410.25, GBPerSec: 1.23}, m)

	m, err = table.Lookup("english.txt", "utf8_dfa")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, m.Value(CodepointsPerMicrosecond))
	assert.Equal(t, 1.5, m.Value(GBPerSec))
}

func TestParse_DefaultSchema(t *testing.T) {
	var b strings.Builder
	b.WriteString("bench\ntest text: test/texts/a.txt\nheader\n")
	for _, v := range []string{"std::a", "b", "c", "d", "e", "f"} {
		b.WriteString(v + " 1 2 3 4 5 6\n")
	}

	table, err := Parse(strings.NewReader(b.String()), DefaultSchema())
	require.NoError(t, err)
	assert.Len(t, table.Variants, 6)
	assert.Equal(t, []TestFile{"a.txt"}, table.Files)

	m, err := table.Lookup("a.txt", "f")
	require.NoError(t, err)
	assert.Equal(t, MetricSet{MemUse: 3, BytesPerCodepoint: 4, CodepointsPerMicrosecond: 5, GBPerSec: 6}, m)
}

// withLines replaces 1-based lines of log.
func withLines(log string, repl map[int]string) string {
	lines := strings.Split(log, "\n")
	for n, l := range repl {
		lines[n-1] = l
	}
	return strings.Join(lines, "\n")
}

// chineseBlock is the first file section of threeVariantLog.
func chineseBlock() string {
	return strings.Join(strings.Split(threeVariantLog, "\n")[1:6], "\n") + "\n"
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		log     string
		strict  bool
		wantErr error
		line    int
	}{
		{
			name:    "short header",
			log:     "one\ntwo\nthree\n",
			wantErr: ErrHeaderTooShort,
		},
		{
			name:    "blank header line",
			log:     withLines(threeVariantLog, map[int]string{5: "   "}),
			wantErr: ErrHeaderTooShort,
			line:    5,
		},
		{
			name:    "bad number",
			log:     withLines(threeVariantLog, map[int]string{5: "utf8_lookup 100 0.5 256 3.0 fast 1.23"}),
			wantErr: ErrBadNumber,
			line:    5,
		},
		{
			name:    "short row",
			log:     withLines(threeVariantLog, map[int]string{11: "utf8_dfa 100"}),
			wantErr: ErrShortRow,
			line:    11,
		},
		{
			name:    "truncated block",
			log:     threeVariantLog + "test text: test/texts/german.txt\nname\nstd::wstring_convert 1 1 1 1 1 1\n",
			wantErr: ErrBlockTruncated,
			line:    12,
		},
		{
			name:    "missing variant",
			log:     withLines(threeVariantLog, map[int]string{11: "utf8_other 100 0.3 512 1.0 1500 1.5"}),
			wantErr: ErrMissingMeasurement,
			line:    7,
		},
		{
			name: "strict order mismatch",
			log: withLines(threeVariantLog, map[int]string{
				10: "utf8_dfa 100 0.3 512 1.0 1500 1.5",
				11: "utf8_lookup 100 0.2 256 1.0 2000 2",
			}),
			strict:  true,
			wantErr: ErrVariantMismatch,
			line:    10,
		},
		{
			name:    "strict duplicate file",
			log:     threeVariantLog + chineseBlock(),
			strict:  true,
			wantErr: ErrDuplicateFile,
			line:    12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := threeVariantSchema()
			schema.Strict = tt.strict

			_, err := Parse(strings.NewReader(tt.log), schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParse_ReorderedRowsKeyedByName(t *testing.T) {
	reordered := withLines(threeVariantLog, map[int]string{
		10: "utf8_dfa 100 0.3 512 1.0 1500 1.5",
		11: "utf8_lookup 100 0.2 256 1.0 2000 2",
	})

	table, err := Parse(strings.NewReader(reordered), threeVariantSchema())
	require.NoError(t, err)

	m, err := table.Lookup("english.txt", "utf8_lookup")
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.GBPerSec)

	strict := threeVariantSchema()
	strict.Strict = true
	_, err = Parse(strings.NewReader(reordered), strict)
	assert.ErrorIs(t, err, ErrVariantMismatch)
}

func TestParse_DuplicateFileLastBlockWins(t *testing.T) {
	again := withLines(chineseBlock(), map[int]string{4: "utf8_lookup 100 0.5 256 3.0 410.25 9.99"})
	table, err := Parse(strings.NewReader(threeVariantLog+again), threeVariantSchema())
	require.NoError(t, err)

	assert.Equal(t, []TestFile{"chinese.txt", "english.txt"}, table.Files)
	m, err := table.Lookup("chinese.txt", "utf8_lookup")
	require.NoError(t, err)
	assert.Equal(t, 9.99, m.GBPerSec)
}

func TestParse_CRLF(t *testing.T) {
	table, err := Parse(strings.NewReader(strings.ReplaceAll(threeVariantLog, "\n", "\r\n")), threeVariantSchema())
	require.NoError(t, err)
	assert.Equal(t, []TestFile{"chinese.txt", "english.txt"}, table.Files)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.log")
	require.NoError(t, os.WriteFile(path, []byte(threeVariantLog), 0644))

	table, err := ParseFile(path, threeVariantSchema())
	require.NoError(t, err)
	assert.Len(t, table.Measurements(), 6)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.log"), threeVariantSchema())
	assert.Error(t, err)
}

func TestResultTable_Lookup(t *testing.T) {
	table := NewResultTable([]TestFile{"a"}, []TestVariant{"x", "y"})
	table.Set("a", "x", MetricSet{MemUse: 1})

	_, err := table.Lookup("a", "y")
	assert.ErrorIs(t, err, ErrMissingMeasurement)
	assert.Len(t, table.Measurements(), 1)
}

func TestMetric(t *testing.T) {
	assert.Equal(t, "memuse", MemUse.String())
	assert.Equal(t, "gb_sec", GBPerSec.String())
	assert.Equal(t, "metric(9)", Metric(9).String())

	set := MetricSet{MemUse: 1, BytesPerCodepoint: 2, CodepointsPerMicrosecond: 3, GBPerSec: 4}
	assert.Equal(t, 2.0, set.Value(BytesPerCodepoint))
	assert.Equal(t, 4.0, set.Value(GBPerSec))
}
