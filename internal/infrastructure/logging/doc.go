// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Setting Config.File adds a JSON sink rotated by lumberjack next to the
// regular outputs.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	logger.Info("Server starting", zap.String("port", "8000"))
//	sessions := session.NewManager(store, session.WithLogger(logger.Named("session")))
package logging
