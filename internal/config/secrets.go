// internal/config/secrets.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const masterKeyName = "__master_key__"

// ErrCiphertextTooShort is returned for sealed values missing their nonce
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// masterKey is swapped out in tests so they never touch the OS keyring
var masterKey = GetMasterKey

// GetMasterKey loads the 32-byte config key from the keyring, creating it on first use
func GetMasterKey() ([]byte, error) {
	ks, err := NewKeyringStore()
	if err != nil {
		return nil, err
	}

	if keyHex, err := ks.Get(masterKeyName); err == nil {
		return hex.DecodeString(keyHex)
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := ks.Set(masterKeyName, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

// Sealer encrypts API keys with AES-GCM; output is hex(nonce || ciphertext)
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a sealer for a 16, 24 or 32 byte key
func NewSealer(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plain under a fresh random nonce
func (s *Sealer) Seal(plain string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(s.aead.Seal(nonce, nonce, []byte(plain), nil)), nil
}

// Open reverses Seal
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := hex.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	n := s.aead.NonceSize()
	if len(raw) < n {
		return "", ErrCiphertextTooShort
	}
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// loadSealer returns nil when no master key is available; secrets then stay
// in memory only
func loadSealer() *Sealer {
	key, err := masterKey()
	if err != nil {
		return nil
	}
	s, err := NewSealer(key)
	if err != nil {
		return nil
	}
	return s
}
