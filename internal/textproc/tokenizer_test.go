package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessor(t *testing.T) {
	t.Run("valid sizes", func(t *testing.T) {
		proc, err := NewProcessor(5, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, proc.NGramSize())
		assert.Equal(t, 5, proc.ShingleSize())
	})

	t.Run("invalid ngram size", func(t *testing.T) {
		_, err := NewProcessor(0, 5)
		assert.ErrorIs(t, err, ErrInvalidNGramSize)
	})

	t.Run("invalid shingle size", func(t *testing.T) {
		_, err := NewProcessor(5, -1)
		assert.ErrorIs(t, err, ErrInvalidShingleSize)
	})
}

func TestMeaningfulTokens(t *testing.T) {
	t.Run("drops single characters and bare numbers", func(t *testing.T) {
		got := MeaningfulTokens([]string{"a", "ab", "123", "b2", "7"})
		assert.Equal(t, []string{"ab", "b2"}, got)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		got := MeaningfulTokens([]string{"가", "가나"})
		assert.Equal(t, []string{"가나"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, MeaningfulTokens(nil))
	})
}

func TestNGrams(t *testing.T) {
	t.Run("sliding windows", func(t *testing.T) {
		got := NGrams([]string{"one", "two", "three", "four"}, 2)
		assert.Equal(t, []string{"one two", "two three", "three four"}, got)
	})

	t.Run("exact length yields one gram", func(t *testing.T) {
		got := NGrams([]string{"one", "two"}, 2)
		assert.Equal(t, []string{"one two"}, got)
	})

	t.Run("fewer tokens than n", func(t *testing.T) {
		assert.Empty(t, NGrams([]string{"one"}, 2))
	})

	t.Run("window count", func(t *testing.T) {
		tokens := []string{"a1", "b1", "c1", "d1", "e1", "f1"}
		assert.Len(t, NGrams(tokens, 5), 2)
	})
}

func TestCharShingles(t *testing.T) {
	t.Run("removes whitespace before shingling", func(t *testing.T) {
		got := CharShingles("ab cd", 3)
		assert.Equal(t, []string{"abc", "bcd"}, got)
	})

	t.Run("deduplicates in first occurrence order", func(t *testing.T) {
		got := CharShingles("ababab", 2)
		assert.Equal(t, []string{"ab", "ba"}, got)
	})

	t.Run("rune safe for korean", func(t *testing.T) {
		got := CharShingles("가나다라", 2)
		assert.Equal(t, []string{"가나", "나다", "다라"}, got)
	})

	t.Run("text shorter than k", func(t *testing.T) {
		assert.Empty(t, CharShingles("ab", 3))
	})
}

func TestWordSet(t *testing.T) {
	t.Run("unique meaningful tokens in order", func(t *testing.T) {
		got := WordSet("go go gophers write go code")
		assert.Equal(t, []string{"go", "gophers", "write", "code"}, got)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, WordSet(""))
	})
}
