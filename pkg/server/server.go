// Package server exposes the question-answering pipeline over HTTP. The
// surface is deliberately small: one chat endpoint and a health check.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitesage/sitesage/pkg/config"
	"github.com/sitesage/sitesage/pkg/server/handlers"
	"github.com/sitesage/sitesage/pkg/telemetry"
)

// Server is the HTTP front of the pipeline.
type Server struct {
	config   *config.Config
	answerer handlers.Answerer
	recorder *telemetry.Recorder
	logger   *slog.Logger
	router   *gin.Engine
	server   *http.Server
}

// New creates a server instance. recorder may be nil to disable
// telemetry.
func New(cfg *config.Config, answerer handlers.Answerer, recorder *telemetry.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:   cfg,
		answerer: answerer,
		recorder: recorder,
		logger:   logger,
	}
}

// Setup builds the router, middleware, and the underlying http.Server.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler()
	chatHandler := handlers.NewChatHandler(s.answerer, s.recorder, s.logger)

	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.POST("/api/chat", chatHandler.Chat)
}

// Router returns the configured router. Setup must have been called.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully and flushes telemetry.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	s.recorder.Flush()
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds permissive CORS headers so the site frontend can
// call the chat endpoint from the browser.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
