package http

import "github.com/gin-gonic/gin"

// Routes registers the session API. The stream handler is mounted at
// /sessions/:id/stream when non-nil.
func (h *Handlers) Routes(router gin.IRouter, stream gin.HandlerFunc) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/apps", h.ListKinds)
	router.GET("/preferences/presets", h.Presets)
	router.POST("/logs", h.StreamLogs)

	sessions := router.Group("/sessions")
	sessions.POST("", h.OpenSession)
	sessions.GET("", h.ListSessions)

	s := sessions.Group("/:id")
	s.GET("", h.GetSession)
	s.DELETE("", h.CloseSession)

	// Power
	s.GET("/power", h.GetPower)
	s.POST("/power/:action", h.PowerAction)

	// Windows
	s.GET("/windows", h.ListWindows)
	s.POST("/windows", h.OpenWindow)
	s.PATCH("/windows/:wid", h.UpdateWindow)
	s.DELETE("/windows/:wid", h.CloseWindow)
	s.POST("/windows/:wid/focus", h.FocusWindow)
	s.POST("/windows/:wid/minimize", h.MinimizeWindow)
	s.POST("/windows/:wid/maximize", h.MaximizeWindow)
	s.POST("/windows/:wid/shell", h.ExecuteShell)
	s.GET("/windows/:wid/shell/history", h.ShellHistory)

	// File manager cursor
	s.GET("/path", h.GetPath)
	s.PUT("/path", h.SetPath)

	// File tree
	fs := s.Group("/fs")
	fs.GET("/stat", h.Stat)
	fs.GET("/list", h.ListDirectory)
	fs.GET("/read", h.ReadFile)
	fs.GET("/search", h.Search)
	fs.GET("/usage", h.Usage)
	fs.PUT("/write", h.WriteFile)
	fs.POST("/file", h.CreateFile)
	fs.POST("/dir", h.CreateDirectory)
	fs.POST("/rename", h.Rename)
	fs.POST("/copy", h.Copy)
	fs.POST("/move", h.Move)
	fs.DELETE("/node", h.DeleteNode)

	// Preferences
	s.GET("/preferences/wallpaper", h.GetWallpaper)
	s.PUT("/preferences/wallpaper", h.SetWallpaper)
	s.DELETE("/preferences/wallpaper", h.ResetWallpaper)
	s.GET("/preferences/theme", h.GetTheme)
	s.PUT("/preferences/theme", h.SetTheme)
	s.DELETE("/preferences/theme", h.ResetTheme)

	if stream != nil {
		s.GET("/stream", stream)
	}
}
