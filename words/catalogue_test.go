package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue_RandomWords_Distinct(t *testing.T) {
	t.Parallel()
	c := NewCatalogue(map[string][]string{
		"default": {"chat", "chien", "soleil", "maison"},
	})

	got, err := c.RandomWords("default", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	seen := map[string]bool{}
	for _, w := range got {
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestCatalogue_RandomWords_FallsBackToDefaultTheme(t *testing.T) {
	t.Parallel()
	c := NewCatalogue(map[string][]string{
		"default": {"chat", "chien"},
	})

	got, err := c.RandomWords("nonexistent-theme", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalogue_RandomWords_UnknownThemeNoDefault(t *testing.T) {
	t.Parallel()
	c := NewCatalogue(map[string][]string{"animals": {"chat"}})

	_, err := c.RandomWords("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestMask_PreservesNonLetters(t *testing.T) {
	t.Parallel()
	c := NewCatalogue(nil)
	assert.Equal(t, "___-___", c.Mask("abc-def"))
	assert.Equal(t, "___ ___", c.Mask("red fox"))
}

func TestRevealRandomLetter_RevealsExactlyOnePosition(t *testing.T) {
	t.Parallel()
	c := NewCatalogue(nil)
	word := "chat"
	masked := c.Mask(word)

	revealed, ok := c.RevealRandomLetter(word, masked)
	require.True(t, ok)

	diff := 0
	for i := range revealed {
		if revealed[i] != masked[i] {
			diff++
		}
	}
	assert.Equal(t, 1, diff)
}

func TestRevealRandomLetter_NothingLeftToReveal(t *testing.T) {
	t.Parallel()
	c := NewCatalogue(nil)
	word := "cat"
	_, ok := c.RevealRandomLetter(word, word)
	assert.False(t, ok)
}
