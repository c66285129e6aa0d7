// internal/config/keyring.go
package config

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "irfinder"

// KeyringStore is the OS keyring entry holding the master key that seals
// profile and server API keys in config.toml. The keys themselves never
// go into the keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the irfinder keyring on whatever backend the OS
// offers
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// Set stores a secret under name, in practice the hex master key under
// masterKeyName
func (k *KeyringStore) Set(name, secret string) error {
	return k.ring.Set(keyring.Item{
		Key:  name,
		Data: []byte(secret),
	})
}

// Get retrieves the secret stored under name
func (k *KeyringStore) Get(name string) (string, error) {
	item, err := k.ring.Get(name)
	if err != nil {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	return string(item.Data), nil
}

// Delete removes the secret stored under name
func (k *KeyringStore) Delete(name string) error {
	return k.ring.Remove(name)
}
