package similarity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHash(t *testing.T) {
	shingles := func(prefix string, n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("%s-%03d", prefix, i)
		}
		return out
	}

	t.Run("identical sets estimate one", func(t *testing.T) {
		s := shingles("doc", 50)
		sigA := MinHashSignature(s, DefaultMinHashCount)
		sigB := MinHashSignature(s, DefaultMinHashCount)
		assert.InDelta(t, 1.0, MinHashSimilarity(sigA, sigB), 1e-9)
	})

	t.Run("disjoint sets estimate low", func(t *testing.T) {
		sigA := MinHashSignature(shingles("left", 80), DefaultMinHashCount)
		sigB := MinHashSignature(shingles("right", 80), DefaultMinHashCount)
		assert.Less(t, MinHashSimilarity(sigA, sigB), 0.3)
	})

	t.Run("signature length matches hash count", func(t *testing.T) {
		sig := MinHashSignature(shingles("doc", 10), 64)
		require.Len(t, sig, 64)
	})

	t.Run("mismatched signature lengths", func(t *testing.T) {
		sigA := MinHashSignature(shingles("doc", 10), 32)
		sigB := MinHashSignature(shingles("doc", 10), 64)
		assert.InDelta(t, 0.0, MinHashSimilarity(sigA, sigB), 1e-9)
	})

	t.Run("empty signatures", func(t *testing.T) {
		assert.InDelta(t, 0.0, MinHashSimilarity(nil, nil), 1e-9)
	})
}
