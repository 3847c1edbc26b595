package persistence

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/resilience"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store closed")
	// ErrCircuitOpen is returned by Guarded while its backend is considered down
	ErrCircuitOpen = resilience.ErrCircuitOpen
)

// Store is a flat key/value store. Keys are '/'-separated by convention.
type Store interface {
	// Get returns ErrNotFound when key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for absent keys
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix in ascending order
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
