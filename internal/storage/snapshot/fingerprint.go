package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/spaolacci/murmur3"
)

// Algorithm names a fingerprint function.
type Algorithm string

const (
	// AlgorithmRolling is the 32-bit h*31+c rolling hash over UTF-16 code
	// units, rendered as the decimal absolute value. It matches what a
	// browser-side copy of the page computes, so fingerprints agree.
	AlgorithmRolling Algorithm = "rolling"
	AlgorithmMurmur3 Algorithm = "murmur3"
	AlgorithmSHA256  Algorithm = "sha256"
)

// Hasher fingerprints canonical document bytes.
type Hasher interface {
	Algorithm() Algorithm
	Sum(canonical []byte) string
}

// NewHasher returns the hasher for alg. An empty name selects the rolling hash.
func NewHasher(alg string) (Hasher, error) {
	switch Algorithm(alg) {
	case AlgorithmRolling, "":
		return RollingHasher{}, nil
	case AlgorithmMurmur3:
		return Murmur3Hasher{}, nil
	case AlgorithmSHA256:
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint algorithm %q", alg)
	}
}

// Fingerprint hashes the canonical form of v.
func Fingerprint(h Hasher, v any) (string, error) {
	data, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return h.Sum(data), nil
}

// RollingHasher implements AlgorithmRolling.
type RollingHasher struct{}

func (RollingHasher) Algorithm() Algorithm { return AlgorithmRolling }

func (RollingHasher) Sum(canonical []byte) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(string(canonical))) {
		h = h*31 + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 10)
}

// Murmur3Hasher implements AlgorithmMurmur3 (128-bit, hex).
type Murmur3Hasher struct{}

func (Murmur3Hasher) Algorithm() Algorithm { return AlgorithmMurmur3 }

func (Murmur3Hasher) Sum(canonical []byte) string {
	h1, h2 := murmur3.Sum128(canonical)
	return fmt.Sprintf("%016x%016x", h1, h2)
}

// SHA256Hasher implements AlgorithmSHA256 (hex).
type SHA256Hasher struct{}

func (SHA256Hasher) Algorithm() Algorithm { return AlgorithmSHA256 }

func (SHA256Hasher) Sum(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
