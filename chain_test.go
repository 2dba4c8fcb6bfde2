package hellman

import (
	stdsha "crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestChain_Deterministic(t *testing.T) {
	b := &Builder{}
	for _, start := range []uint64{0, 1, 42, Domain - 1, 1 << 37} {
		for _, r := range []Index{1, 63, 64, 200, 255} {
			assert.Equal(t, b.Chain(start, r, 25), b.Chain(start, r, 25))
		}
	}
}

func TestChain_ZeroColumns(t *testing.T) {
	var b *Builder /* nil Builder behaves as the zero value */
	for _, start := range []uint64{0, 7, Domain - 1} {
		for r := 0; r < 256; r += 17 {
			assert.Equal(t, start, b.Chain(start, Index(r), 0))
		}
	}
}

func TestChain_MatchesStandardLibrary(t *testing.T) {
	ref := &Builder{Digest: stdsha.Sum256}
	b := &Builder{}
	for _, start := range []uint64{0, 123456789, Domain - 1} {
		assert.Equal(t, ref.Chain(start, 3, 40), b.Chain(start, 3, 40))
	}
}

func TestChain_SingleStep(t *testing.T) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 99)
	want := Reduce(stdsha.Sum256(buf[:]), 1)
	assert.Equal(t, want, (&Builder{}).Chain(99, 1, 1))
}

func TestChain_AccumulatorAdvances(t *testing.T) {
	b := &Builder{}
	one := b.Chain(5, 9, 1)
	/* Two steps must hash the first step's output, not the start again. */
	assert.Equal(t, b.Chain(one, 9, 1), b.Chain(5, 9, 2))
}

func TestWalk_DomainClosure(t *testing.T) {
	b := &Builder{Digest: blake3.Sum256}
	for r := 0; r < 256; r++ {
		var visited uint64
		end := b.Walk(Domain-1, Index(r), 30, func(col, x uint64) {
			require.Equal(t, visited, col)
			require.Less(t, x, Domain)
			visited++
		})
		assert.Equal(t, uint64(30), visited)
		assert.Less(t, end, Domain)
	}
}

func TestChain_RejectsStartOutsideDomain(t *testing.T) {
	assert.Panics(t, func() { (&Builder{}).Chain(Domain, 1, 1) })
}
