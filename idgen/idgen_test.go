package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Unique(t *testing.T) {
	t.Parallel()
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestCode_Generate_UsesAlphabetAndLength(t *testing.T) {
	t.Parallel()
	c := NewCodeGenerator(defaultAlphabet, 6)

	code := c.Generate()

	assert.Len(t, code, 6)
	for _, ch := range code {
		assert.True(t, strings.ContainsRune(defaultAlphabet, ch), "unexpected rune %q", ch)
	}
}

func TestCode_Generate_DefaultsWhenUnconfigured(t *testing.T) {
	t.Parallel()
	c := NewCodeGenerator("", 0)

	assert.Equal(t, defaultAlphabet, c.Alphabet)
	assert.Equal(t, 6, c.Length)
	assert.Len(t, c.Generate(), 6)
}
