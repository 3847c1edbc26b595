/*
Package monitoring provides Prometheus metrics for the desktop backend.

Collectors live on a private registry created by NewMetrics, exposed through
Handler at /metrics. Besides HTTP traffic they track sessions, windows, power
transitions, shell commands, snapshot flushes and WebSocket connections.

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.ShellCommand("ls", false)
	metrics.Flush(time.Since(start), err)

Snapshot returns running totals for the JSON health endpoint.
*/
package monitoring
