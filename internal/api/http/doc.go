// Package http provides the REST API of the desktop backend using Gin.
//
// Endpoints:
//   - Health: / and /health
//   - Catalog: /apps, /preferences/presets
//   - Sessions: /sessions[?saved=true], /sessions/:id
//   - Power: /sessions/:id/power, /sessions/:id/power/:action
//   - Windows: /sessions/:id/windows[/:wid[/focus|minimize|maximize]]
//   - Shell: /sessions/:id/windows/:wid/shell[/history]
//   - Files: /sessions/:id/fs/{stat,list,read,search,usage,write,file,dir,rename,copy,move,node}
//   - Cursor: /sessions/:id/path
//   - Preferences: /sessions/:id/preferences/{wallpaper,theme}
//   - Frontend logs: POST /logs
//
// Domain errors become JSON errors: not found 404, conflicts and power state
// 409, invalid names, payloads and type mismatches 422, an open storage
// circuit 503.
//
// Example Usage:
//
//	handlers := http.NewHandlers(sessions, metrics, logger, http.Config{DefaultSession: "default"})
//	handlers.Routes(router, stream.HandleConnection)
package http
