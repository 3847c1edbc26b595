package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebOS/backend/internal/providers/preferences"
)

// GetWallpaper returns the desktop wallpaper
func (h *Handlers) GetWallpaper(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	w, err := s.Preferences().Wallpaper(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// SetWallpaper stores the desktop wallpaper
func (h *Handlers) SetWallpaper(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var w preferences.Wallpaper
	if err := c.ShouldBindJSON(&w); err != nil {
		h.invalid(c, err)
		return
	}
	if err := s.Preferences().SetWallpaper(c.Request.Context(), w); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// ResetWallpaper restores the default wallpaper
func (h *Handlers) ResetWallpaper(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Preferences().ResetWallpaper(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, preferences.DefaultWallpaper())
}

// GetTheme returns the theme colors
func (h *Handlers) GetTheme(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	theme, err := s.Preferences().Theme(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, theme)
}

// SetTheme stores the theme colors
func (h *Handlers) SetTheme(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var theme preferences.ThemeColors
	if err := c.ShouldBindJSON(&theme); err != nil {
		h.invalid(c, err)
		return
	}
	if err := s.Preferences().SetTheme(c.Request.Context(), theme); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, theme)
}

// ResetTheme restores the default theme
func (h *Handlers) ResetTheme(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Preferences().ResetTheme(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, preferences.DefaultTheme())
}

// Presets lists the built-in gradients and themes
func (h *Handlers) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"gradients": preferences.GradientPresets(),
		"themes":    preferences.ThemePresets(),
	})
}
