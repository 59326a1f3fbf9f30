package kv

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrNotFound    = errors.New("key not found")
	ErrInvalidKey  = errors.New("invalid key")
	ErrStoreClosed = errors.New("kv store is closed")
)

// Store defines durable key-value persistence for small string payloads.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Close closes the store.
	Close() error
}
