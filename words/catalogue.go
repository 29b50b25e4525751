// Package words holds the themed word catalogue and the masking/hint
// logic. The list is keyed by theme instead of a single global list,
// since every room has a theme.
package words

import (
	"errors"
	"math/rand"
	"strings"
)

var ErrUnknownTheme = errors.New("unknown-theme")

// Catalogue holds the themed word lists and is immutable/pure after
// construction.
type Catalogue struct {
	byTheme map[string][]string
}

// NewCatalogue builds a Catalogue from theme -> words. Callers
// typically pass DefaultLists().
func NewCatalogue(byTheme map[string][]string) *Catalogue {
	c := &Catalogue{byTheme: make(map[string][]string, len(byTheme))}
	for theme, list := range byTheme {
		cp := make([]string, len(list))
		copy(cp, list)
		c.byTheme[theme] = cp
	}
	return c
}

// Themes lists the available theme keys.
func (c *Catalogue) Themes() []string {
	themes := make([]string, 0, len(c.byTheme))
	for t := range c.byTheme {
		themes = append(themes, t)
	}
	return themes
}

// RandomWords returns n distinct random words from the given theme.
// If the theme is unknown it falls back to the "default" theme so a
// malformed or stale room.theme never blocks word selection.
func (c *Catalogue) RandomWords(theme string, n int) ([]string, error) {
	list, ok := c.byTheme[theme]
	if !ok {
		list, ok = c.byTheme["default"]
		if !ok {
			return nil, ErrUnknownTheme
		}
	}
	if n > len(list) {
		n = len(list)
	}

	idx := rand.Perm(len(list))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, list[i])
	}
	return out, nil
}

// Mask replaces every letter of word with the underscore placeholder,
// leaving non-letter characters (spaces, hyphens) as themselves.
func (c *Catalogue) Mask(word string) string {
	var b strings.Builder
	for _, r := range word {
		if isLetter(r) {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}

// RevealRandomLetter picks one still-masked position in masked and
// replaces it with the matching letter of word, returning the updated
// mask. It reports ok=false if there is nothing left to reveal.
func (c *Catalogue) RevealRandomLetter(word, masked string) (revealed string, ok bool) {
	wordRunes := []rune(word)
	maskedRunes := []rune(masked)
	if len(wordRunes) != len(maskedRunes) {
		return masked, false
	}

	candidates := make([]int, 0, len(maskedRunes))
	for i, r := range maskedRunes {
		if r == '_' {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return masked, false
	}

	pick := candidates[rand.Intn(len(candidates))]
	maskedRunes[pick] = wordRunes[pick]
	return string(maskedRunes), true
}
