package config

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "ferrumdb"

// KeyringStore keeps secrets in the system keyring, keyed by connection label
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the ferrumdb keyring
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// SetPassword stores a password for a connection label
func (k *KeyringStore) SetPassword(label, password string) error {
	return k.ring.Set(keyring.Item{
		Key:         label,
		Data:        []byte(password),
		Label:       "ferrumdb " + label,
		Description: "database password",
	})
}

// GetPassword retrieves the password for a connection label
func (k *KeyringStore) GetPassword(label string) (string, error) {
	item, err := k.ring.Get(label)
	if err != nil {
		return "", fmt.Errorf("no password stored for %s: %w", label, err)
	}
	return string(item.Data), nil
}

// DeletePassword removes the password for a connection label
func (k *KeyringStore) DeletePassword(label string) error {
	return k.ring.Remove(label)
}
