package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	t.Run("identical sets", func(t *testing.T) {
		assert.InDelta(t, 1.0, Jaccard([]string{"a", "b"}, []string{"a", "b"}), 1e-9)
	})

	t.Run("partial overlap", func(t *testing.T) {
		// intersection 1, union 3
		assert.InDelta(t, 1.0/3.0, Jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
	})

	t.Run("disjoint sets", func(t *testing.T) {
		assert.InDelta(t, 0.0, Jaccard([]string{"a"}, []string{"b"}), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []string{"x", "y", "z"}
		b := []string{"y", "z", "w", "v"}
		assert.InDelta(t, Jaccard(a, b), Jaccard(b, a), 1e-9)
	})

	t.Run("both empty", func(t *testing.T) {
		assert.InDelta(t, 1.0, Jaccard(nil, nil), 1e-9)
	})

	t.Run("one empty", func(t *testing.T) {
		assert.InDelta(t, 0.0, Jaccard([]string{"a"}, nil), 1e-9)
		assert.InDelta(t, 0.0, Jaccard(nil, []string{"a"}), 1e-9)
	})
}

func TestIntersection(t *testing.T) {
	t.Run("preserves first argument order", func(t *testing.T) {
		b := map[string]struct{}{"c": {}, "a": {}}
		got := Intersection([]string{"a", "b", "c"}, b)
		assert.Equal(t, []string{"a", "c"}, got)
	})

	t.Run("no overlap", func(t *testing.T) {
		got := Intersection([]string{"a"}, map[string]struct{}{"b": {}})
		assert.Empty(t, got)
	})
}

func TestTFIDFCosine(t *testing.T) {
	t.Run("identical token sequences", func(t *testing.T) {
		tokens := []string{"neural", "networks", "learn", "patterns"}
		assert.InDelta(t, 1.0, TFIDFCosine(tokens, tokens), 1e-9)
	})

	t.Run("disjoint vocabularies", func(t *testing.T) {
		got := TFIDFCosine([]string{"alpha", "beta"}, []string{"gamma", "delta"})
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("shared terms keep weight", func(t *testing.T) {
		got := TFIDFCosine(
			[]string{"deep", "learning", "models"},
			[]string{"deep", "learning", "systems"},
		)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 1.0)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.InDelta(t, 0.0, TFIDFCosine(nil, []string{"a"}), 1e-9)
		assert.InDelta(t, 0.0, TFIDFCosine([]string{"a"}, nil), 1e-9)
	})
}
