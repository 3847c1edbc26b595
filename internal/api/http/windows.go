package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// windowPatch is window.Patch with the payload left raw until the window's
// kind is known.
type windowPatch struct {
	window.Patch
	Data json.RawMessage `json:"data"`
}

// ListWindows returns every window and the visible stack
func (h *Handlers) ListWindows(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"windows": nonNil(s.Windows()),
		"visible": nonNil(s.VisibleWindows()),
	})
}

// OpenWindow opens a window from a spec
func (h *Handlers) OpenWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var spec window.Spec
	if err := c.ShouldBindJSON(&spec); err != nil {
		h.invalid(c, err)
		return
	}
	w, err := s.OpenWindow(spec)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// UpdateWindow merges geometry, title, flags and payload
func (h *Handlers) UpdateWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	windowID := id.WindowID(c.Param("wid"))

	var req windowPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}

	patch := req.Patch
	if len(req.Data) > 0 {
		current, found := s.Window(windowID)
		if !found {
			h.fail(c, window.ErrNotFound)
			return
		}
		data, err := window.DecodePayload(current.AppType, req.Data)
		if err != nil {
			h.invalid(c, err)
			return
		}
		patch.Data = data
	}

	w, err := s.UpdateWindow(windowID, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	windowID := id.WindowID(c.Param("wid"))
	if err := s.CloseWindow(c.Request.Context(), windowID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": windowID})
}

// FocusWindow raises a window
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowAction(c, (*session.Session).FocusWindow)
}

// MinimizeWindow toggles minimized
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowAction(c, (*session.Session).MinimizeWindow)
}

// MaximizeWindow toggles maximized
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.windowAction(c, (*session.Session).MaximizeWindow)
}

func (h *Handlers) windowAction(c *gin.Context, fn func(*session.Session, id.WindowID) (window.State, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	w, err := fn(s, id.WindowID(c.Param("wid")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// ListKinds returns the application kinds with their default title and size
func (h *Handlers) ListKinds(c *gin.Context) {
	kinds := window.Kinds()
	out := make([]gin.H, 0, len(kinds))
	for _, k := range kinds {
		size := k.DefaultSize()
		out = append(out, gin.H{
			"appType": k,
			"title":   k.DefaultTitle(),
			"width":   size.Width,
			"height":  size.Height,
		})
	}
	c.JSON(http.StatusOK, gin.H{"kinds": out})
}

type shellRequest struct {
	Line string `json:"line"`
}

// ExecuteShell runs one command line in a terminal window
func (h *Handlers) ExecuteShell(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req shellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	res, err := s.Execute(id.WindowID(c.Param("wid")), req.Line)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ShellHistory returns a terminal window's command history
func (h *Handlers) ShellHistory(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	history, err := s.History(id.WindowID(c.Param("wid")))
	if err != nil {
		h.fail(c, err)
		return
	}
	if history == nil {
		history = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
