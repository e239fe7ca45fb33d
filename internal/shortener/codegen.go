package shortener

import (
	"strings"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the set of characters generated codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength is the length of generated codes.
const DefaultCodeLength = 6

// CodeGenerator generates candidate short codes. Uniqueness is not guaranteed.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of uniformly random alphanumeric codes.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return gen, nil
}

// ValidCode reports whether code can be routed as a single path segment.
// Any other character is escaped when the short link is built.
func ValidCode(code string) bool {
	switch code {
	case "", ".", "..":
		return false
	}

	return !strings.Contains(code, "/")
}
