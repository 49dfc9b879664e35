package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNanoID(t *testing.T) {
	id := NanoID()
	assert.Len(t, id, NanoidSize)
	assert.NotEqual(t, NanoID(), NanoID())

	key := PrefixedNanoID("lm_")
	assert.True(t, strings.HasPrefix(key, "lm_"))
	assert.Len(t, key, NanoidSize+3)

	for _, r := range id {
		assert.Contains(t, nanoidAlphabet, string(r))
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hello", TruncateRunes("hello", 10))
	assert.Equal(t, "hello", TruncateRunes("hello", 5))
	assert.Equal(t, "hel…", TruncateRunes("hello", 4))
	assert.Equal(t, "h", TruncateRunes("hello", 1))
	assert.Equal(t, "", TruncateRunes("hello", 0))

	got := TruncateRunes("東京タワーの夜景", 4)
	assert.Equal(t, "東京タ…", got)
	assert.Equal(t, 4, utf8.RuneCountInString(got))
}
