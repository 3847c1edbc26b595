// Package ws streams a desktop session over a WebSocket.
//
// A client connects to /sessions/:id/stream and may send:
//   - exec: run {"line"} in the terminal window {"window_id"}
//   - state: request the session summary
//   - ping: keep-alive
//
// The server answers with output, state, pong and error messages, and pushes
// a power message on every power transition of the session. A slow client
// loses power events rather than stalling the session.
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions, metrics, logger)
//	router.GET("/sessions/:id/stream", handler.HandleConnection)
package ws
