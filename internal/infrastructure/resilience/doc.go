/*
Package resilience provides the circuit breaker placed in front of
persistence backends.

When a backend such as Redis or SQLite keeps failing, the breaker opens and
calls fail immediately with ErrCircuitOpen instead of piling up behind a dead
connection. After Timeout one trial call is let through (half-open); success
closes the breaker again.

	breaker := resilience.New("redis", resilience.Settings{
		Timeout: 10 * time.Second,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, persistence.ErrNotFound)
		},
	})

	value, err := resilience.Call(breaker, func() ([]byte, error) {
		return store.Get(ctx, key)
	})

States:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                             |
	                                         [failure]
	                                             v
	                                            Open

Time is read from a clockwork.Clock so tests can step through the timeout.
*/
package resilience
