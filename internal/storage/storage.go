// Package storage persists the client session as a small set of string values.
//
// The session store only ever reads and writes the keys declared here, so any
// backend that can hold a handful of strings (a file, the OS keychain, a
// SQLite database, Redis) can stand in for browser local storage.
package storage

import (
	"context"
	"errors"
)

// Key names a persisted session value
type Key string

const (
	// KeyToken holds the opaque bearer credential
	KeyToken Key = "token"
	// KeyUser holds the serialized current user
	KeyUser Key = "user"
	// KeyRegisteredUser holds the identity saved by an offline registration
	KeyRegisteredUser Key = "registeredUser"
)

// Keys lists every key a repository may be asked to hold
var Keys = []Key{KeyToken, KeyUser, KeyRegisteredUser}

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("storage: key not found")

// Repository is a typed key-value store over the session keys
type Repository interface {
	// Get returns the stored value or ErrNotFound
	Get(ctx context.Context, key Key) (string, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key Key, value string) error
	// Clear removes the given keys. Missing keys are not an error.
	Clear(ctx context.Context, keys ...Key) error
	// Close releases the underlying medium
	Close() error
}

// Valid reports whether k is one of the declared session keys
func (k Key) Valid() bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}
	return false
}
