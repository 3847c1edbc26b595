package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func fail() error    { return errBackend }
func succeed() error { return nil }

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		calls         []bool // true = success
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			calls:         []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name:          "default trips after five failures",
			calls:         []bool{false, false, false, false, false},
			expectedState: StateOpen,
		},
		{
			name:          "success resets consecutive failures",
			calls:         []bool{false, false, false, false, true, false},
			expectedState: StateClosed,
		},
		{
			name: "custom threshold",
			settings: Settings{
				ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
			},
			calls:         []bool{false, false},
			expectedState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.settings.Clock = clockwork.NewFakeClock()
			b := New("test", tt.settings)

			for _, ok := range tt.calls {
				if ok {
					_ = b.Do(succeed)
				} else {
					_ = b.Do(fail)
				}
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestOpenBreakerFailsFast(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := New("test", Settings{
		Clock:       clock,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	require.ErrorIs(t, b.Do(fail), errBackend)
	require.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestHalfOpenRecovery(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var changes []string
	b := New("test", Settings{
		Clock:       clock,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		OnStateChange: func(_ string, from, to State) {
			changes = append(changes, from.String()+"->"+to.String())
		},
	})

	_ = b.Do(fail)
	clock.Advance(10 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, changes)
}

func TestHalfOpenFailureReopens(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := New("test", Settings{
		Clock:       clock,
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	_ = b.Do(fail)
	clock.Advance(time.Second)
	_ = b.Do(fail)
	assert.Equal(t, StateOpen, b.State())
}

func TestIsSuccessful(t *testing.T) {
	errMissing := errors.New("missing")
	b := New("test", Settings{
		Clock:        clockwork.NewFakeClock(),
		ReadyToTrip:  func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errMissing) },
	})

	assert.ErrorIs(t, b.Do(func() error { return errMissing }), errMissing)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().TotalSuccesses)
}

func TestCall(t *testing.T) {
	b := New("test", Settings{Clock: clockwork.NewFakeClock()})

	v, err := Call(b, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Call(b, func() (string, error) { return "", errBackend })
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, uint32(2), b.Counts().Requests)
}

func TestIntervalClearsCounts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := New("test", Settings{Clock: clock, Interval: time.Minute})

	_ = b.Do(fail)
	require.Equal(t, uint32(1), b.Counts().TotalFailures)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Counts().TotalFailures)
}

func TestPanicCountsAsFailure(t *testing.T) {
	b := New("test", Settings{
		Clock:       clockwork.NewFakeClock(),
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	assert.Panics(t, func() {
		_ = b.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}
