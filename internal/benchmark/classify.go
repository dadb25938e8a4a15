package benchmark

import "strings"

// DefaultBaselinePrefix marks standard-library variants.
const DefaultBaselinePrefix = "std::"

// Classifier splits variants into baselines and candidates.
type Classifier struct {
	BaselinePrefix string
}

func NewClassifier(prefix string) Classifier {
	return Classifier{BaselinePrefix: prefix}
}

// IsBaseline reports whether v carries the baseline prefix. An empty prefix
// classifies nothing as baseline.
func (c Classifier) IsBaseline(v TestVariant) bool {
	return c.BaselinePrefix != "" && strings.HasPrefix(string(v), c.BaselinePrefix)
}

// Candidates returns the non-baseline variants, keeping their order.
func (c Classifier) Candidates(variants []TestVariant) []TestVariant {
	out := make([]TestVariant, 0, len(variants))
	for _, v := range variants {
		if !c.IsBaseline(v) {
			out = append(out, v)
		}
	}
	return out
}

// Baselines returns the baseline variants, keeping their order.
func (c Classifier) Baselines(variants []TestVariant) []TestVariant {
	var out []TestVariant
	for _, v := range variants {
		if c.IsBaseline(v) {
			out = append(out, v)
		}
	}
	return out
}
