package benchmark

import "fmt"

type Comparison struct {
	File         TestFile
	Variant      TestVariant
	GBPerSecDiff float64 // Percentage change
	MemUseDiff   float64 // Percentage change
	Prev         MetricSet
	Curr         MetricSet
}

// Compare runs comparison between two runs.
// It returns one comparison per (file, variant) pair measured in both runs,
// in the current run's order.
func Compare(prev, curr Run) []Comparison {
	type key struct {
		f TestFile
		v TestVariant
	}
	prevMap := make(map[key]MetricSet, len(prev.Measurements))
	for _, m := range prev.Measurements {
		prevMap[key{m.File, m.Variant}] = m.MetricSet
	}

	var comparisons []Comparison
	for _, c := range curr.Measurements {
		p, ok := prevMap[key{c.File, c.Variant}]
		if !ok {
			continue
		}
		comp := Comparison{
			File:    c.File,
			Variant: c.Variant,
			Prev:    p,
			Curr:    c.MetricSet,
		}
		if p.GBPerSec > 0 {
			comp.GBPerSecDiff = (c.GBPerSec - p.GBPerSec) / p.GBPerSec * 100
		}
		if p.MemUse > 0 {
			comp.MemUseDiff = (c.MemUse - p.MemUse) / p.MemUse * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s/%s: %+.2f%% GB/s", c.File, c.Variant, c.GBPerSecDiff)
}
