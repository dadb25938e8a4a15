package benchmark

// Schema describes the positional layout of a benchmark log.
//
// A log starts with a header block whose lines after HeaderSkip name the
// variants, one per line. Each test file section starts with a marker line
// beginning with FilePrefix; the row for variant k sits RowOffset+k lines
// below the marker.
type Schema struct {
	FilePrefix  string
	HeaderLines int
	HeaderSkip  int
	RowOffset   int

	NameColumn     int
	MemUseColumn   int
	BytesPerCPCol  int
	CPPerUSColumn  int
	GBPerSecColumn int

	// Strict cross-checks every row name against the header variant at the
	// same position and rejects repeated file sections.
	Strict bool
}

// DefaultSchema returns the layout written by the utf8 lookup benchmark.
func DefaultSchema() Schema {
	return Schema{
		FilePrefix:     "test text: test/texts/",
		HeaderLines:    9,
		HeaderSkip:     3,
		RowOffset:      2,
		NameColumn:     0,
		MemUseColumn:   3,
		BytesPerCPCol:  4,
		CPPerUSColumn:  5,
		GBPerSecColumn: 6,
	}
}

// VariantCount is the number of variants the header declares.
func (s Schema) VariantCount() int {
	return s.HeaderLines - s.HeaderSkip
}

func (s Schema) minTokens() int {
	n := s.NameColumn
	for _, c := range []int{s.MemUseColumn, s.BytesPerCPCol, s.CPPerUSColumn, s.GBPerSecColumn} {
		if c > n {
			n = c
		}
	}
	return n + 1
}
