// Package gamecode generates the short join codes players type to find a
// room.
package gamecode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet for join codes. Upper-case base32 without the lookalikes
// I, O, 0 and 1 so codes survive being read out loud across a table.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length of a join code.
const Length = 5

// RandSource interface for dependency injection of randomness.
type RandSource interface {
	Intn(n int) int
}

// Generator creates join codes with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator with an optional RandSource. A nil
// source uses crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new join code using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new join code using the generator's RandSource.
func (g *Generator) Generate() string {
	code := make([]byte, Length)
	if g.randSource != nil {
		for i := range code {
			code[i] = alphabet[g.randSource.Intn(len(alphabet))]
		}
		return string(code)
	}

	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	for i := range code {
		code[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(code)
}

// Validate checks that a join code has the right length and alphabet.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("join code must be exactly %d characters, got %d", Length, len(code))
	}
	for i, char := range code {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
