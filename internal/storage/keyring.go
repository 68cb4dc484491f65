package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "agrimarket-cli"
	probeKey       = "probe"
)

// KeyringRepository keeps session values in the OS keychain/credential manager
type KeyringRepository struct {
	scope string
}

// NewKeyringRepository creates a keyring repository. Values are stored per
// scope so sessions against different API hosts do not collide.
func NewKeyringRepository(scope string) *KeyringRepository {
	return &KeyringRepository{scope: scope}
}

// getKeyringKey returns a unique account name for a key within the scope
func (r *KeyringRepository) getKeyringKey(key Key) string {
	return fmt.Sprintf("%s-%s", key, r.scope)
}

func (r *KeyringRepository) Get(_ context.Context, key Key) (string, error) {
	value, err := keyring.Get(keyringService, r.getKeyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return value, nil
}

func (r *KeyringRepository) Set(_ context.Context, key Key, value string) error {
	if err := keyring.Set(keyringService, r.getKeyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (r *KeyringRepository) Clear(_ context.Context, keys ...Key) error {
	for _, key := range keys {
		if err := keyring.Delete(keyringService, r.getKeyringKey(key)); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				continue // Already deleted
			}
			return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
		}
	}
	return nil
}

func (r *KeyringRepository) Close() error {
	return nil
}

// KeyringAvailable reports whether the OS keyring answers at all. Headless
// hosts without a secret service fail every call, not just missing keys.
func KeyringAvailable() bool {
	_, err := keyring.Get(keyringService, probeKey)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
