// Package codegen produces the short lookup codes handed out by the share
// endpoint.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/smallwat3r/textdrop/internal/domain"
)

// Generator produces random codes of a fixed length from a fixed alphabet.
// It does not check for collisions with live codes.
type Generator struct {
	alphabet string
	length   int
}

// New returns a Generator, rejecting alphabets with characters that are not
// URL-safe or with fewer than two distinct characters.
func New(alphabet string, length int) (*Generator, error) {
	if err := ValidateAlphabet(alphabet); err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, fmt.Errorf("code length must be positive, got %d", length)
	}
	return &Generator{alphabet: alphabet, length: length}, nil
}

// ValidateAlphabet reports whether alphabet is usable for codes: a subset of
// domain.URLAlphabet with at least two distinct characters.
func ValidateAlphabet(alphabet string) error {
	seen := make(map[rune]struct{}, len(alphabet))
	for _, r := range alphabet {
		if !strings.ContainsRune(domain.URLAlphabet, r) {
			return fmt.Errorf("alphabet contains non URL-safe character %q", r)
		}
		seen[r] = struct{}{}
	}
	if len(seen) < 2 {
		return errors.New("alphabet needs at least two distinct characters")
	}
	return nil
}

// Generate returns a new random code.
func (g *Generator) Generate() (string, error) {
	return gonanoid.Generate(g.alphabet, g.length)
}

