// Package server exposes the REST surface over the event store and the
// pipeline trigger.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dorianjanezic/major-news/internal/config"
	"github.com/dorianjanezic/major-news/internal/store"
)

// Server wraps the gin engine and its listener configuration.
type Server struct {
	httpServer *http.Server
}

// New builds the REST server with all routes registered.
func New(cfg config.ServerConfig, st store.EventStore, trigger PipelineTrigger, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	h := NewEventHandler(st, trigger, logger)

	engine.GET("/health", h.Health)
	api := engine.Group("/api")
	{
		api.GET("/events", h.ListEvents)
		api.PATCH("/events/:id", h.UpdateEvent)
		api.DELETE("/events/:id", h.DeleteEvent)
		api.POST("/events/generate", h.GenerateCurrent)
		api.POST("/events/generate/upcoming", h.GenerateUpcoming)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run starts serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
