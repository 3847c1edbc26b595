package session

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/power"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/window"
)

// DefaultPersistInterval is how often a running session flushes its tree
const DefaultPersistInterval = 5 * time.Second

// Config tunes timers and limits of a session
type Config struct {
	BootDelay       time.Duration
	RestartDelay    time.Duration
	PersistInterval time.Duration
	MaxWindows      int
	Environment     shell.Environment
}

// DefaultConfig returns the stock desktop timings
func DefaultConfig() Config {
	return Config{
		BootDelay:       power.DefaultBootDelay,
		RestartDelay:    power.DefaultRestartDelay,
		PersistInterval: DefaultPersistInterval,
		MaxWindows:      window.DefaultCapacity,
		Environment:     shell.DefaultEnvironment(),
	}
}

// Option configures a Session or a Manager
type Option func(*options)

type options struct {
	config   Config
	clock    clockwork.Clock
	logger   *zap.Logger
	recorder Recorder
	autoBoot bool
}

func defaultOptions() options {
	return options{
		config:   DefaultConfig(),
		clock:    clockwork.NewRealClock(),
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		autoBoot: true,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithConfig overrides timings and limits
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithClock sets the clock driving boot, restart and persistence timers
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithAutoBoot controls whether Manager.Open powers sessions on
func WithAutoBoot(enabled bool) Option {
	return func(o *options) { o.autoBoot = enabled }
}
