package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	defaultSize = 16
	maxLength   = 128
)

// Generator creates opaque IDs for correlating requests across logs and traces.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator returns hex-encoded random IDs of size bytes.
type RandomGenerator struct {
	size int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: defaultSize}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = defaultSize
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Valid reports whether an externally supplied ID is at most 128 characters of
// [A-Za-z0-9._-].
func Valid(value string) bool {
	if value == "" || len(value) > maxLength {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
