package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Config holds handler settings
type Config struct {
	// DefaultSession is opened when POST /sessions carries no name
	DefaultSession string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	config   Config
	started  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(sessions *session.Manager, metrics *monitoring.Metrics, logger *zap.Logger, cfg Config) *Handlers {
	if cfg.DefaultSession == "" {
		cfg.DefaultSession = "default"
	}
	return &Handlers{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		config:   cfg,
		started:  time.Now(),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "WebOS backend",
		"version": Version,
	})
}

// Health handles detailed health check. usage holds the tree size of every
// open session by name.
func (h *Handlers) Health(c *gin.Context) {
	open := h.sessions.List()
	usage := make(map[string]vfs.Usage, len(open))
	for _, s := range open {
		usage[s.Name()] = s.FileSystem().Usage()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(open),
		"usage":    usage,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"metrics":  h.metrics.Snapshot(),
	})
}

// session resolves the :id parameter, answering 404 itself when it is unknown
func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(id.SessionID(c.Param("id")))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}
