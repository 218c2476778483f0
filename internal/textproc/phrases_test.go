package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentences(t *testing.T) {
	t.Run("latin terminators", func(t *testing.T) {
		got := Sentences("One. Two! Three?")
		assert.Equal(t, []string{"One", "Two", "Three"}, got)
	})

	t.Run("cjk terminators", func(t *testing.T) {
		got := Sentences("하나입니다。둘입니다！셋입니까？")
		assert.Equal(t, []string{"하나입니다", "둘입니다", "셋입니까"}, got)
	})

	t.Run("no terminator yields whole text", func(t *testing.T) {
		got := Sentences("no terminator here")
		assert.Equal(t, []string{"no terminator here"}, got)
	})

	t.Run("drops empty fragments", func(t *testing.T) {
		got := Sentences("One... Two.. ")
		assert.Equal(t, []string{"One", "Two"}, got)
	})
}

func TestKeyPhrases(t *testing.T) {
	t.Run("ranks by frequency then length", func(t *testing.T) {
		got := KeyPhrases("systems systems systems data data go", 2)
		assert.Equal(t, []string{"systems", "data"}, got)
	})

	t.Run("ignores stop words", func(t *testing.T) {
		got := KeyPhrases("the the the neural networks", 2)
		assert.NotContains(t, got, "the")
	})

	t.Run("deterministic tie break", func(t *testing.T) {
		first := KeyPhrases("apple berry cedar", 3)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, KeyPhrases("apple berry cedar", 3))
		}
	})

	t.Run("non positive topK", func(t *testing.T) {
		assert.Empty(t, KeyPhrases("some words", 0))
	})
}
