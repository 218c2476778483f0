package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, "hello world", Normalize("Hello, World!"))
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		assert.Equal(t, "a b c", Normalize("a \t b\n\n c"))
	})

	t.Run("keeps korean letters", func(t *testing.T) {
		assert.Equal(t, "안녕하세요 반갑습니다", Normalize("안녕하세요! 반갑습니다."))
	})

	t.Run("keeps digits and underscore", func(t *testing.T) {
		assert.Equal(t, "item_42 ready", Normalize("Item_42: ready?"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
		assert.Equal(t, "", Normalize("!!! ...  "))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			"Hello, World!",
			"  mixed   CASE \t text. ",
			"한국어 문장입니다! 맞죠?",
		}
		for _, in := range inputs {
			once := Normalize(in)
			assert.Equal(t, once, Normalize(once))
		}
	})
}

func TestStopWords(t *testing.T) {
	t.Run("removes english stop words", func(t *testing.T) {
		assert.Equal(t, "cat sat mat", RemoveStopWords("the cat sat on a mat"))
	})

	t.Run("removes korean particles", func(t *testing.T) {
		assert.Equal(t, "고양이 앉았다", RemoveStopWords("그 고양이 는 앉았다"))
	})

	t.Run("IsStopWord", func(t *testing.T) {
		assert.True(t, IsStopWord("the"))
		assert.True(t, IsStopWord("는"))
		assert.False(t, IsStopWord("cat"))
	})
}
