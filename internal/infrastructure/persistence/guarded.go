package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/resilience"
)

// Guarded routes every call to an inner store through a circuit breaker.
// A missing key is an expected outcome and never trips it.
type Guarded struct {
	inner   Store
	breaker *resilience.Breaker
}

// NewGuarded wraps inner. settings.IsSuccessful is overridden.
func NewGuarded(name string, inner Store, settings resilience.Settings, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrNotFound)
	}
	onChange := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("Store circuit breaker changed state",
			zap.String("store", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
		if onChange != nil {
			onChange(name, from, to)
		}
	}
	return &Guarded{inner: inner, breaker: resilience.New(name, settings)}
}

// State reports the breaker state
func (g *Guarded) State() resilience.State {
	return g.breaker.State()
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := resilience.Call(g.breaker, func() ([]byte, error) {
		return g.inner.Get(ctx, key)
	})
	return value, translate(err)
}

func (g *Guarded) Put(ctx context.Context, key string, value []byte) error {
	return translate(g.breaker.Do(func() error {
		return g.inner.Put(ctx, key, value)
	}))
}

func (g *Guarded) Delete(ctx context.Context, key string) error {
	return translate(g.breaker.Do(func() error {
		return g.inner.Delete(ctx, key)
	}))
}

func (g *Guarded) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := resilience.Call(g.breaker, func() ([]string, error) {
		return g.inner.Keys(ctx, prefix)
	})
	return keys, translate(err)
}

func (g *Guarded) Close() error {
	return g.inner.Close()
}

func translate(err error) error {
	if errors.Is(err, resilience.ErrTooManyRequests) {
		return fmt.Errorf("%w: trial call in progress", ErrCircuitOpen)
	}
	return err
}
