package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/power"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/window"
)

type openSessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	session.Info
	Windows []window.State `json:"windows"`
	Visible []window.State `json:"visible"`
}

// OpenSession opens or restores a session by name
func (h *Handlers) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.invalid(c, err)
			return
		}
	}
	if req.Name == "" {
		req.Name = h.config.DefaultSession
	}

	s, err := h.sessions.Open(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Info())
}

// ListSessions lists open sessions. With ?saved=true it lists the names of
// sessions that have a stored file tree instead.
func (h *Handlers) ListSessions(c *gin.Context) {
	if c.Query("saved") == "true" {
		names, err := h.sessions.Saved(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": names})
		return
	}

	list := h.sessions.List()
	infos := make([]session.Info, 0, len(list))
	for _, s := range list {
		infos = append(infos, s.Info())
	}
	c.JSON(http.StatusOK, gin.H{"sessions": infos})
}

// GetSession returns one session with its windows
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		Info:    s.Info(),
		Windows: nonNil(s.Windows()),
		Visible: nonNil(s.VisibleWindows()),
	})
}

// CloseSession flushes and closes a session
func (h *Handlers) CloseSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.sessions.Close(c.Request.Context(), s.ID()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": s.ID()})
}

// GetPower returns the power state
func (h *Handlers) GetPower(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.PowerState()})
}

// PowerAction runs boot, shutdown, restart, sleep or wake
func (h *Handlers) PowerAction(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var err error
	switch action := c.Param("action"); power.Action(action) {
	case power.ActionBoot:
		err = s.Boot()
	case power.ActionShutdown:
		err = s.Shutdown(c.Request.Context())
	case power.ActionRestart:
		err = s.Restart(c.Request.Context())
	case power.ActionSleep:
		err = s.Sleep()
	case power.ActionWake:
		err = s.WakeUp()
	default:
		err = errUnknownAction
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.PowerState()})
}

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

// GetPath returns the file manager cursor
func (h *Handlers) GetPath(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": s.CurrentPath()})
}

// SetPath moves the file manager cursor
func (h *Handlers) SetPath(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	if err := s.SetCurrentPath(req.Path); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": s.CurrentPath()})
}

func nonNil(windows []window.State) []window.State {
	if windows == nil {
		return []window.State{}
	}
	return windows
}
