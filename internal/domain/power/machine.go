package power

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// State is a power state
type State string

const (
	StateBooting  State = "booting"
	StateRunning  State = "running"
	StateSleeping State = "sleeping"
	StateShutdown State = "shutdown"
)

// Action names a transition trigger
type Action string

const (
	ActionBoot         Action = "boot"
	ActionBootComplete Action = "boot-complete"
	ActionSleep        Action = "sleep"
	ActionWake         Action = "wake"
	ActionShutdown     Action = "shutdown"
	ActionRestart      Action = "restart"
	ActionPowerOn      Action = "power-on"
)

const (
	DefaultBootDelay    = 2 * time.Second
	DefaultRestartDelay = 500 * time.Millisecond
)

var (
	ErrInvalidTransition = errors.New("invalid power transition")
	ErrDisposed          = errors.New("power machine disposed")
)

// Transition describes one state change
type Transition struct {
	From   State     `json:"from"`
	To     State     `json:"to"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}

// Observer is notified after every transition, outside the machine's lock
type Observer func(Transition)

// Machine is the power-state machine of one session
type Machine struct {
	mu           sync.Mutex
	state        State
	timer        clockwork.Timer
	generation   uint64
	disposed     bool
	observers    []Observer
	clock        clockwork.Clock
	bootDelay    time.Duration
	restartDelay time.Duration
	logger       *zap.Logger
}

// Option configures a Machine
type Option func(*Machine)

// WithClock sets the clock driving automatic transitions
func WithClock(clock clockwork.Clock) Option {
	return func(m *Machine) { m.clock = clock }
}

// WithDelays overrides the boot and restart delays
func WithDelays(boot, restart time.Duration) Option {
	return func(m *Machine) {
		m.bootDelay = boot
		m.restartDelay = restart
	}
}

// WithInitialState sets the starting state
func WithInitialState(s State) Option {
	return func(m *Machine) { m.state = s }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// NewMachine creates a machine in the shutdown state
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		state:        StateShutdown,
		clock:        clockwork.NewRealClock(),
		bootDelay:    DefaultBootDelay,
		restartDelay: DefaultRestartDelay,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Running reports whether the desktop is interactive
func (m *Machine) Running() bool {
	return m.State() == StateRunning
}

// Subscribe registers an observer
func (m *Machine) Subscribe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, o)
}

// Boot powers on: shutdown -> booting, then running after the boot delay
func (m *Machine) Boot() error {
	return m.fire(ActionBoot, StateShutdown, StateBooting, func() {
		m.schedule(m.bootDelay, ActionBootComplete, StateBooting, StateRunning, nil)
	})
}

// Sleep suspends the desktop: running -> sleeping
func (m *Machine) Sleep() error {
	return m.fire(ActionSleep, StateRunning, StateSleeping, nil)
}

// WakeUp resumes the desktop: sleeping -> running
func (m *Machine) WakeUp() error {
	return m.fire(ActionWake, StateSleeping, StateRunning, nil)
}

// Shutdown powers off: running -> shutdown
func (m *Machine) Shutdown() error {
	return m.fire(ActionShutdown, StateRunning, StateShutdown, nil)
}

// Restart powers off, waits the restart delay, then boots again
func (m *Machine) Restart() error {
	return m.fire(ActionRestart, StateRunning, StateShutdown, func() {
		m.schedule(m.restartDelay, ActionPowerOn, StateShutdown, StateBooting, func() {
			m.schedule(m.bootDelay, ActionBootComplete, StateBooting, StateRunning, nil)
		})
	})
}

// Dispose cancels pending timers. Every later transition fails with ErrDisposed.
func (m *Machine) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disposed = true
	m.cancel()
}

// Pending reports whether an automatic transition is scheduled
func (m *Machine) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.timer != nil
}

// fire performs a user-triggered transition. then runs under the lock after the
// state changes, to schedule follow-up legs.
func (m *Machine) fire(action Action, from, to State, then func()) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrDisposed
	}
	if m.state != from {
		current := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, current)
	}

	m.cancel()
	t := m.apply(action, to)
	if then != nil {
		then()
	}
	observers := m.snapshotObservers()
	m.mu.Unlock()

	m.notify(observers, t)
	return nil
}

// schedule arms the single pending timer (must hold lock)
func (m *Machine) schedule(d time.Duration, action Action, from, to State, then func()) {
	gen := m.generation
	m.timer = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		if m.disposed || m.generation != gen || m.state != from {
			m.mu.Unlock()
			return
		}
		m.timer = nil
		t := m.apply(action, to)
		if then != nil {
			then()
		}
		observers := m.snapshotObservers()
		m.mu.Unlock()

		m.notify(observers, t)
	})
}

// apply changes state and invalidates older timers (must hold lock)
func (m *Machine) apply(action Action, to State) Transition {
	t := Transition{From: m.state, To: to, Action: action, At: m.clock.Now()}
	m.state = to
	m.generation++
	m.logger.Debug("Power transition",
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
		zap.String("action", string(action)))
	return t
}

// cancel stops the pending timer (must hold lock)
func (m *Machine) cancel() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}

func (m *Machine) snapshotObservers() []Observer {
	return append([]Observer(nil), m.observers...)
}

func (m *Machine) notify(observers []Observer, t Transition) {
	for _, o := range observers {
		o(t)
	}
}
