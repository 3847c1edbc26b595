package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// maxUILogBatch bounds one POST /logs request
const maxUILogBatch = 500

// uiLogPolicy strips markup from frontend log messages
var uiLogPolicy = bluemonday.StrictPolicy()

// UILogEntry represents a log entry from the desktop frontend
type UILogEntry struct {
	ID        string                 `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context"`
	Timestamp string                 `json:"timestamp"`
}

// UILogStreamRequest represents a batch of logs from the frontend
type UILogStreamRequest struct {
	Source  string       `json:"source" binding:"required,eq=ui"`
	Entries []UILogEntry `json:"entries" binding:"required,min=1"`
}

// StreamLogs writes frontend log entries into the backend log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log request: " + err.Error()})
		return
	}
	if len(req.Entries) > maxUILogBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many log entries"})
		return
	}

	logger := h.logger.Named("ui")
	for _, entry := range req.Entries {
		h.writeUILog(logger, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

func (h *Handlers) writeUILog(logger *zap.Logger, entry UILogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+2)
	fields = append(fields,
		zap.String("ui_log_id", entry.ID),
		zap.String("ui_timestamp", entry.Timestamp),
	)
	for key, value := range entry.Context {
		fields = append(fields, zap.Any(key, value))
	}

	message := uiLogPolicy.Sanitize(entry.Message)
	switch entry.Level {
	case "error":
		logger.Error(message, fields...)
	case "warn":
		logger.Warn(message, fields...)
	case "debug", "verbose":
		logger.Debug(message, fields...)
	default:
		logger.Info(message, fields...)
	}
}
