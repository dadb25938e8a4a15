package hashgen

import (
	"errors"
	"fmt"

	"github.com/spaolacci/murmur3"
)

// ErrHashCollision is returned when two generated strings share a hash. The
// emitted switch would not compile with duplicate case labels.
var ErrHashCollision = errors.New("hash collision")

// Case is one generated switch case.
type Case struct {
	Index int
	Text  string
	Hash  uint32
}

// HashLiteral renders the hash as an 8-digit hex C literal.
func (c Case) HashLiteral() string {
	return FormatHash(c.Hash)
}

// Hash is MurmurHash3 x86_32 with seed 0, matching murmur::static_hash_x86_32.
func Hash(s string) uint32 {
	return murmur3.Sum32WithSeed([]byte(s), 0)
}

func FormatHash(h uint32) string {
	return fmt.Sprintf("0x%08x", h)
}

// GenerateStrings draws count strings of length runes from alphabet.
func GenerateStrings(seq Sequence, count, length int, alphabet string) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	if length <= 0 {
		return nil, fmt.Errorf("length must be positive, got %d", length)
	}
	runes := []rune(alphabet)
	if len(runes) == 0 {
		return nil, errors.New("alphabet is empty")
	}

	out := make([]string, 0, count)
	buf := make([]rune, length)
	for i := 0; i < count; i++ {
		for j := range buf {
			buf[j] = runes[seq.Choose(len(runes))]
		}
		out = append(out, string(buf))
	}
	return out, nil
}

// Build hashes the strings in order and numbers them from zero.
func Build(texts []string) ([]Case, error) {
	seen := make(map[uint32]int, len(texts))
	cases := make([]Case, 0, len(texts))
	for i, s := range texts {
		h := Hash(s)
		if j, ok := seen[h]; ok {
			return nil, fmt.Errorf("%w: %q (case %d) and %q (case %d) both hash to %s",
				ErrHashCollision, texts[j], j, s, i, FormatHash(h))
		}
		seen[h] = i
		cases = append(cases, Case{Index: i, Text: s, Hash: h})
	}
	return cases, nil
}
