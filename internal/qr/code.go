package qr

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	// CodeLength is the number of characters in an identity code
	CodeLength = 12
	codeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces candidate identity codes. Uniqueness is checked
// by the caller against the store.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes from a cryptographic random source
type RandomGenerator struct {
	reader io.Reader
}

// NewRandomGenerator creates a generator backed by crypto/rand
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{reader: rand.Reader}
}

// Generate returns a random uppercase alphanumeric code of CodeLength characters
func (g *RandomGenerator) Generate() (string, error) {
	limit := big.NewInt(int64(len(codeChars)))
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(g.reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		code[i] = codeChars[n.Int64()]
	}
	return string(code), nil
}

// ValidCode reports whether s has the shape of a generated code
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
