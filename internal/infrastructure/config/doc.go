// Package config provides 12-factor configuration management for the desktop backend.
//
// Sources, lowest precedence first: Default, an optional TOML file named by
// CONFIG_FILE, a .env file, then the process environment.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, CORS origins, shutdown timeout)
//   - Logging: Log level, format and rotating file sink
//   - RateLimit: Per-IP rate limiting configuration
//   - Storage: Key-value backend (memory, file, sqlite, redis) and its circuit breaker
//   - Session: Boot/restart delays, persistence interval, window cap
//   - Shell: USER, HOME and HOSTNAME reported by the terminal
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS, SHUTDOWN_TIMEOUT
//   - LOG_LEVEL, LOG_DEV, LOG_FILE
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - STORAGE_BACKEND, STORAGE_PATH, STORAGE_COMPRESS, REDIS_ADDR, BREAKER_FAILURES
//   - SESSION_DEFAULT, BOOT_DELAY, RESTART_DELAY, PERSIST_INTERVAL, MAX_WINDOWS
//   - SHELL_USER, SHELL_HOME, SHELL_HOSTNAME
package config
