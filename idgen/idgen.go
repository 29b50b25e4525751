// Package idgen produces opaque player/room ids and short, unambiguous
// room codes. It carries no lock of its own beyond what math/rand's
// default source needs; callers that need a unique code among live
// rooms drive the retry loop themselves (the registry is what knows
// which codes are live).
package idgen

import (
	"math/rand"

	"github.com/google/uuid"
)

const defaultAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewID returns a fresh opaque identifier, suitable for room or
// player ids.
func NewID() string {
	return uuid.NewString()
}

// Code is a room-code generator drawing from an unambiguous alphabet
// (no 0/O/1/I) so codes read aloud or typed by hand don't collide
// visually.
type Code struct {
	Alphabet string
	Length   int
}

func NewCodeGenerator(alphabet string, length int) Code {
	if alphabet == "" {
		alphabet = defaultAlphabet
	}
	if length <= 0 {
		length = 6
	}
	return Code{Alphabet: alphabet, Length: length}
}

// Generate returns one candidate code. It does not check uniqueness;
// it's up to the caller (the room registry) to retry on collision up
// to 100 times before failing with CodeExhaustion.
func (c Code) Generate() string {
	b := make([]byte, c.Length)
	for i := range b {
		b[i] = c.Alphabet[rand.Intn(len(c.Alphabet))]
	}
	return string(b)
}
