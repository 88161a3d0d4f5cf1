// Package storage persists proof-of-employment documents encrypted at rest
// with AES-256-GCM. Filenames stay in the clear; contents never do.
package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// ProofStore writes encrypted files under a base directory.
type ProofStore struct {
	dir  string
	aead cipher.AEAD
}

// NewProofStore derives a 256-bit key from the configured secret and prepares
// the upload directory.
func NewProofStore(dir, secret string) (*ProofStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &ProofStore{dir: dir, aead: aead}, nil
}

// Save encrypts data and writes it to a file named name under the store
// directory, returning the path.
func (s *ProofStore) Save(name string, data []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := s.aead.Seal(nonce, nonce, data, nil)
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return "", fmt.Errorf("write proof file: %w", err)
	}
	return path, nil
}

// Load reads and decrypts a previously saved file.
func (s *ProofStore) Load(path string) ([]byte, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read proof file: %w", err)
	}
	if len(sealed) < s.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	return s.aead.Open(nil, nonce, ciphertext, nil)
}
