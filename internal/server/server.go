// Package server exposes the board over HTTP: the JSON endpoint, the
// auto-refreshing page and a health report of both feeds.
package server

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rewired-gh/oddsboard/internal/board"
	"github.com/rewired-gh/oddsboard/internal/logger"
	"github.com/rewired-gh/oddsboard/internal/models"
	"github.com/rewired-gh/oddsboard/internal/monitor"
)

const serviceName = "oddsboard"

//go:embed static/index.html
var indexHTML []byte

// errorBody is the only failure shape clients ever see.
var errorBody = gin.H{"error": "Server error"}

// BoardSource produces a merged board.
type BoardSource interface {
	Fetch(ctx context.Context) (*board.Board, error)
}

// HealthSource reports per-feed health.
type HealthSource interface {
	Snapshot() []monitor.FeedState
	Healthy() bool
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string              `json:"status"`
	Service   string              `json:"service"`
	Timestamp time.Time           `json:"timestamp"`
	Feeds     []monitor.FeedState `json:"feeds"`
}

// Server routes HTTP requests to the board.
type Server struct {
	board  BoardSource
	health HealthSource
	router *gin.Engine
}

// New builds the router. health may be nil.
func New(b BoardSource, health HealthSource) *Server {
	s := &Server{board: b, health: health}

	router := gin.New()
	router.Use(RequestID(), RequestLogger(), recovery())

	router.GET("/", s.handleIndex)
	router.GET("/api/board", s.handleBoard)
	router.GET("/health", s.handleHealth)
	router.HEAD("/health", s.handleHealth)

	s.router = router
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleBoard(c *gin.Context) {
	b, err := s.board.Fetch(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody)
		return
	}

	games := b.Games
	if games == nil {
		games = []models.UnifiedGame{}
	}
	c.JSON(http.StatusOK, games)
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
		Feeds:     []monitor.FeedState{},
	}
	if s.health != nil {
		resp.Feeds = s.health.Snapshot()
		if !s.health.Healthy() {
			resp.Status = "degraded"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Run serves srv until ctx is cancelled, then shuts it down gracefully.
// It returns early with the listener error if the server cannot start.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
