package hashgen

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
)

const (
	AlgorithmMT19937 = "mt19937"
	AlgorithmPCG     = "pcg"

	DefaultSeed     = 1337
	DefaultLength   = 16
	DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"
)

// Sequence picks uniformly distributed indexes. The same seed always yields
// the same picks.
type Sequence interface {
	// Choose returns an index in [0, n). n must be positive.
	Choose(n int) int
}

// NewSequence returns the sequence named by algorithm.
func NewSequence(algorithm string, seed int64) (Sequence, error) {
	switch algorithm {
	case AlgorithmMT19937, "":
		return NewMTSequence(seed), nil
	case AlgorithmPCG:
		return NewPCGSequence(seed), nil
	default:
		return nil, fmt.Errorf("unknown sequence algorithm %q (want %s or %s)", algorithm, AlgorithmMT19937, AlgorithmPCG)
	}
}

// MTSequence draws indexes from a Mersenne Twister seeded and sampled the way
// CPython's random module does it, so random.seed(s); random.choice(x)
// produces the same picks.
type MTSequence struct {
	mt *MT19937
}

func NewMTSequence(seed int64) *MTSequence {
	return &MTSequence{mt: NewMT19937Array(seedKey(seed))}
}

// seedKey splits |seed| into little-endian 32-bit words.
func seedKey(seed int64) []uint32 {
	u := uint64(seed)
	if seed < 0 {
		u = uint64(-seed)
	}
	if u == 0 {
		return []uint32{0}
	}
	var key []uint32
	for u > 0 {
		key = append(key, uint32(u))
		u >>= 32
	}
	return key
}

// Choose uses rejection sampling over the smallest covering bit width.
func (s *MTSequence) Choose(n int) int {
	if n <= 0 {
		panic("hashgen: Choose called with non-positive n")
	}
	if uint64(n) > 1<<32 {
		panic("hashgen: Choose range exceeds 32 bits")
	}
	k := bits.Len64(uint64(n))
	if k > 32 {
		k = 32
	}
	r := s.mt.Bits(k)
	for uint64(r) >= uint64(n) {
		r = s.mt.Bits(k)
	}
	return int(r)
}

// PCGSequence wraps the standard library's PCG generator.
type PCGSequence struct {
	r *rand.Rand
}

func NewPCGSequence(seed int64) *PCGSequence {
	u := uint64(seed)
	return &PCGSequence{r: rand.New(rand.NewPCG(u, u^0x9e3779b97f4a7c15))}
}

func (s *PCGSequence) Choose(n int) int {
	return s.r.IntN(n)
}
