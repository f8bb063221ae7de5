// Package id generates the opaque category identifiers used throughout the
// service. The alphabet and length are load-bearing: they must match the
// identifiers produced by the system this implementation interoperates with,
// so ids minted by either side are indistinguishable in format.
package id

import (
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/sellershut/categories/internal/errs"
)

// alphabet is the 36-symbol set ids are drawn from: the digits 2-9 (0 and 1
// are excluded), lowercase a-z, underscore and hyphen.
const alphabet = "23456789abcdefghijklmnopqrstuvwxyz_-"

// Length is the fixed number of symbols in a generated id.
const Length = 21

// New generates a fresh 21-character identifier.
func New() (string, error) {
	s, err := gonanoid.Generate(alphabet, Length)
	if err != nil {
		return "", errs.Wrap(errs.Internal, err, "generate id")
	}
	return s, nil
}

// Valid reports whether s has the shape of a generated id. It does not
// consult the store; it only checks length and alphabet membership.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if !isAlphabetRune(r) {
			return false
		}
	}
	return true
}

func isAlphabetRune(r rune) bool {
	for _, a := range alphabet {
		if a == r {
			return true
		}
	}
	return false
}
