package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/resilience"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend
type Options struct {
	Backend         string
	Path            string
	Redis           RedisOptions
	Compress        bool
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Open builds the configured store: backend, then compression, then the
// circuit breaker for anything that is not in-process.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store Store
		err   error
	)
	switch opts.Backend {
	case BackendMemory, "":
		store = NewMemoryStore()
	case BackendFile:
		store, err = NewFileStore(opts.Path)
	case BackendSQLite:
		store, err = NewSQLiteStore(filepath.Join(opts.Path, "webos.db"))
	case BackendRedis:
		store, err = NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if opts.Compress {
		compressed, err := NewCompressed(store)
		if err != nil {
			store.Close()
			return nil, err
		}
		store = compressed
	}

	if opts.Backend != BackendMemory && opts.Backend != "" {
		failures := opts.BreakerFailures
		if failures == 0 {
			failures = 5
		}
		store = NewGuarded(opts.Backend, store, resilience.Settings{
			Timeout: opts.BreakerTimeout,
			ReadyToTrip: func(c resilience.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
		}, logger)
	}

	logger.Info("Persistence store ready",
		zap.String("backend", opts.Backend),
		zap.Bool("compress", opts.Compress))
	return store, nil
}
