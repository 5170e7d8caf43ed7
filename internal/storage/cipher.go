package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Subkey purposes.
const (
	SubkeyStore   = "pagekeep/store"
	SubkeyArchive = "pagekeep/archive"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAuto     CipherType = "auto"
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// Cipher provides authenticated encryption. The nonce is prepended to the
// ciphertext.
type Cipher interface {
	Type() CipherType
	Encrypt(plaintext, additionalData []byte) ([]byte, error)
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}

// NewCipher creates a cipher of the given type. CipherAuto picks AES-GCM
// where the platform accelerates it (or the key is not 32 bytes) and
// ChaCha20-Poly1305 elsewhere.
func NewCipher(key []byte, typ CipherType) (Cipher, error) {
	if typ == CipherAuto || typ == "" {
		typ = CipherChaCha20
		if hasAESAcceleration() || len(key) != chacha20poly1305.KeySize {
			typ = CipherAESGCM
		}
	}

	switch typ {
	case CipherAESGCM:
		switch len(key) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("aes-gcm: invalid key size %d (need 16, 24 or 32)", len(key))
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{typ: typ, aead: aead}, nil

	case CipherChaCha20:
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("chacha20-poly1305: invalid key size %d (need %d)", len(key), chacha20poly1305.KeySize)
		}
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		return &aeadCipher{typ: typ, aead: aead}, nil

	default:
		return nil, fmt.Errorf("unknown cipher type: %q", typ)
	}
}

// ParseKey decodes a hex-encoded encryption key.
func ParseKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("encryption key must be hex: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("encryption key must be 16, 24 or 32 bytes, got %d", len(key))
	}
}

// DeriveSubkey derives a 32-byte key for purpose from master using HKDF,
// so the store and archives never share a key.
func DeriveSubkey(master []byte, purpose string) ([]byte, error) {
	if len(master) < 16 {
		return nil, fmt.Errorf("master key too short: %d bytes", len(master))
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("derive subkey: %w", err)
	}
	return key, nil
}

// hasAESAcceleration reports whether crypto/aes runs on hardware here.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64", "s390x", "ppc64le":
		return true
	default:
		return false
	}
}

type aeadCipher struct {
	typ  CipherType
	aead cipher.AEAD
}

func (c *aeadCipher) Type() CipherType { return c.typ }

func (c *aeadCipher) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n+c.aead.Overhead() {
		return nil, errors.New("ciphertext too short")
	}
	return c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}
