package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/power"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/WebOS/backend/internal/providers/preferences"
)

var errUnknownAction = errors.New("unknown power action")

var (
	notFound = []error{
		session.ErrNotFound,
		window.ErrNotFound,
		vfs.ErrNotFound,
		persistence.ErrNotFound,
	}
	conflict = []error{
		vfs.ErrAlreadyExists,
		session.ErrNotRunning,
		session.ErrClosed,
		power.ErrInvalidTransition,
		power.ErrDisposed,
		window.ErrCapacityExceeded,
	}
	unprocessable = []error{
		vfs.ErrTypeMismatch,
		vfs.ErrInvalidName,
		vfs.ErrInvalidTarget,
		vfs.ErrInvalidPattern,
		window.ErrPayloadMismatch,
		window.ErrUnknownKind,
		session.ErrNotTerminal,
		session.ErrInvalidName,
		preferences.ErrInvalid,
		errUnknownAction,
	}
)

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, persistence.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case isAny(err, unprocessable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail writes err as a JSON error with its mapped status
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// invalid answers a request body or query that could not be decoded. Domain
// errors raised while decoding keep their own status.
func (h *Handlers) invalid(c *gin.Context, err error) {
	if statusOf(err) != http.StatusInternalServerError {
		h.fail(c, err)
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
