package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Desktop metrics
	SessionsActive   prometheus.Gauge
	SessionsOpened   *prometheus.CounterVec
	WindowsOpen      *prometheus.GaugeVec
	WindowEvents     *prometheus.CounterVec
	PowerTransitions *prometheus.CounterVec
	ShellCommands    *prometheus.CounterVec
	TreeNodes        *prometheus.GaugeVec
	TreeBytes        *prometheus.GaugeVec

	// Persistence metrics
	PersistFlushes  *prometheus.CounterVec
	PersistDuration prometheus.Histogram

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the JSON health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for the JSON API
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveSessions    int64   `json:"active_sessions"`
	ActiveConnections int64   `json:"active_connections"`
	Flushes           int64   `json:"flushes"`
	FailedFlushes     int64   `json:"failed_flushes"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates collectors on a fresh registry, so several instances
// can live in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "webos_sessions_active",
			Help: "Number of open desktop sessions",
		}),
		SessionsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_sessions_opened_total",
				Help: "Sessions opened, by whether the tree was restored or seeded",
			},
			[]string{"source"},
		),
		WindowsOpen: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webos_windows_open",
				Help: "Open windows per session",
			},
			[]string{"session"},
		),
		WindowEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_window_events_total",
				Help: "Window operations by kind of event",
			},
			[]string{"event"},
		),
		PowerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_power_transitions_total",
				Help: "Power state transitions",
			},
			[]string{"from", "to"},
		),
		ShellCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_shell_commands_total",
				Help: "Shell commands executed",
			},
			[]string{"command", "status"},
		),

		TreeNodes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webos_vfs_nodes",
				Help: "Files and directories in a session tree at its last flush",
			},
			[]string{"session", "kind"},
		),
		TreeBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "webos_vfs_bytes",
				Help: "File content bytes in a session tree at its last flush",
			},
			[]string{"session"},
		),

		PersistFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_persist_flushes_total",
				Help: "Snapshot flushes by result",
			},
			[]string{"result"},
		),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "webos_persist_flush_duration_seconds",
			Help:    "Time spent serializing and storing a snapshot",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),

		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "webos_ws_connections",
			Help: "Open WebSocket connections",
		}),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webos_ws_messages_total",
				Help: "WebSocket messages by direction and type",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "webos_uptime_seconds",
		Help: "Backend uptime in seconds",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	return m
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SessionOpened counts a session opened from source ("restored" or "seeded")
func (m *Metrics) SessionOpened(source string) {
	m.SessionsOpened.WithLabelValues(source).Inc()
}

// SetSessionsActive sets the number of open sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveSessions = int64(count)
	m.mu.Unlock()
}

// SetWindowsOpen sets the open-window gauge of one session
func (m *Metrics) SetWindowsOpen(session string, count int) {
	m.WindowsOpen.WithLabelValues(session).Set(float64(count))
}

// ForgetSession drops per-session series
func (m *Metrics) ForgetSession(session string) {
	m.WindowsOpen.DeleteLabelValues(session)
	m.TreeNodes.DeletePartialMatch(prometheus.Labels{"session": session})
	m.TreeBytes.DeleteLabelValues(session)
}

// SetTreeUsage sets the tree size gauges of one session
func (m *Metrics) SetTreeUsage(session string, files, directories int, bytes int64) {
	m.TreeNodes.WithLabelValues(session, "file").Set(float64(files))
	m.TreeNodes.WithLabelValues(session, "directory").Set(float64(directories))
	m.TreeBytes.WithLabelValues(session).Set(float64(bytes))
}

// WindowEvent counts a window operation
func (m *Metrics) WindowEvent(event string) {
	m.WindowEvents.WithLabelValues(event).Inc()
}

// PowerTransition counts a power state change
func (m *Metrics) PowerTransition(from, to string) {
	m.PowerTransitions.WithLabelValues(from, to).Inc()
}

// ShellCommand counts an executed command
func (m *Metrics) ShellCommand(command string, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	m.ShellCommands.WithLabelValues(command, status).Inc()
}

// Flush records a snapshot flush
func (m *Metrics) Flush(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PersistFlushes.WithLabelValues(result).Inc()
	m.PersistDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Flushes++
	if err != nil {
		m.snapshot.FailedFlushes++
	}
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the running totals
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMs = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
