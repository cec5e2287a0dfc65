package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "quitq-cli"

// KeyringStorage persists session entries in the OS keychain/credential manager.
// Entries are scoped so that sessions against different backends do not collide.
type KeyringStorage struct {
	scope string
}

// NewKeyringStorage creates a keyring backed Storage for the given scope,
// typically the API host.
func NewKeyringStorage(scope string) *KeyringStorage {
	return &KeyringStorage{scope: scope}
}

// keyringKey returns a unique key for an entry within the scope
func (k *KeyringStorage) keyringKey(key string) string {
	return fmt.Sprintf("%s-%s", key, k.scope)
}

func (k *KeyringStorage) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := keyring.Get(keyringService, k.keyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return value, nil
}

func (k *KeyringStorage) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Set(keyringService, k.keyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Delete(keyringService, k.keyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
