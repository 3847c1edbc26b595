package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/WebOS/backend/internal/api/http"
	"github.com/GriffinCanCode/WebOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/WebOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	sessions *session.Manager
	store    persistence.Store
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewLogger builds the process logger from the logging section
func NewLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logCfg.File = cfg.Logging.File
	logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	logCfg.MaxAgeDays = cfg.Logging.MaxAgeDays
	return logging.New(logCfg)
}

// StoreOptions maps the storage section onto persistence options
func StoreOptions(cfg *config.Config) persistence.Options {
	return persistence.Options{
		Backend:  cfg.Storage.Backend,
		Path:     cfg.Storage.Path,
		Compress: cfg.Storage.Compress,
		Redis: persistence.RedisOptions{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
			Prefix:   cfg.Storage.RedisPrefix,
		},
		BreakerFailures: cfg.Storage.BreakerFailures,
		BreakerTimeout:  cfg.Storage.BreakerTimeout.Std(),
	}
}

// SessionConfig maps the session and shell sections onto session.Config
func SessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		BootDelay:       cfg.Session.BootDelay.Std(),
		RestartDelay:    cfg.Session.RestartDelay.Std(),
		PersistInterval: cfg.Session.PersistInterval.Std(),
		MaxWindows:      cfg.Session.MaxWindows,
		Environment: shell.Environment{
			User:     cfg.Shell.User,
			Home:     cfg.Shell.Home,
			Hostname: cfg.Shell.Hostname,
		},
	}
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return New(ctx, cfg, logger)
}

// New creates a server that logs through logger
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing WebOS server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("default_session", cfg.Session.DefaultName),
	)

	// Metrics first, every other component reports into it
	metrics := monitoring.NewMetrics()

	store, err := persistence.Open(ctx, StoreOptions(cfg), logger.Named("persistence"))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Info("Storage ready", zap.String("backend", cfg.Storage.Backend), zap.String("path", cfg.Storage.Path))

	sessions := session.NewManager(store,
		session.WithConfig(SessionConfig(cfg)),
		session.WithLogger(logger.Named("session")),
		session.WithRecorder(metrics),
		session.WithAutoBoot(cfg.Session.AutoBoot),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Named("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.Server.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := api.NewHandlers(sessions, metrics, logger.Logger, api.Config{DefaultSession: cfg.Session.DefaultName})
	stream := ws.NewHandler(sessions, metrics, logger.Named("ws"))

	handlers.Routes(router, stream.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		sessions: sessions,
		store:    store,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session manager
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Run serves until ctx is cancelled, then drains connections for at most the
// configured shutdown timeout and closes every session.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = s.Close(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout.Std())
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	return errors.Join(err, s.Close(shutdownCtx))
}

// Close flushes and closes every session, then the store
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if err := s.sessions.CloseAll(ctx); err != nil {
		s.logger.Error("Failed to close sessions", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close sessions: %w", err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	s.logger.Info("Server stopped")

	// Sync logger before exit
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
