package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// sealedPrefix tags values written by SealedStore.
const sealedPrefix = "pk-sealed:v1:"

// ErrNotSealed is returned when a SealedStore reads a value that was not
// written through a SealedStore.
var ErrNotSealed = errors.New("value is not sealed")

// SealedStore encrypts values before handing them to the wrapped Store.
// The storage key is bound as additional data, so a value moved to a
// different key fails to open.
type SealedStore struct {
	inner  Store
	cipher Cipher
}

// NewSealedStore wraps inner with c.
func NewSealedStore(inner Store, c Cipher) *SealedStore {
	return &SealedStore{inner: inner, cipher: c}
}

// Get implements Store.
func (s *SealedStore) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	encoded, ok := strings.CutPrefix(raw, sealedPrefix)
	if !ok {
		return "", ErrNotSealed
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("sealed: decode: %w", err)
	}
	plaintext, err := s.cipher.Decrypt(ciphertext, []byte(key))
	if err != nil {
		return "", fmt.Errorf("sealed: decrypt: %w", err)
	}
	return string(plaintext), nil
}

// Set implements Store.
func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	ciphertext, err := s.cipher.Encrypt([]byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("sealed: encrypt: %w", err)
	}
	return s.inner.Set(ctx, key, sealedPrefix+base64.StdEncoding.EncodeToString(ciphertext))
}

// Delete implements Store.
func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close closes the wrapped store.
func (s *SealedStore) Close() error {
	return s.inner.Close()
}

// Unwrap returns the wrapped engine.
func (s *SealedStore) Unwrap() Store {
	return s.inner
}

// Engine returns the innermost engine behind any SealedStore layers.
func Engine(s Store) Store {
	for {
		u, ok := s.(interface{ Unwrap() Store })
		if !ok {
			return s
		}
		s = u.Unwrap()
	}
}
