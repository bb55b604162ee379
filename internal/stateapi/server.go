// Package stateapi exposes the engine's per-frame output to the render
// layer over HTTP. The engine writes the latest FrameOutput after each
// update; consumers poll /api/v1/state. Prometheus metrics and a health
// probe are mounted on the same listener.
package stateapi

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/signalsfoundry/orbitviz/core"
	"github.com/signalsfoundry/orbitviz/internal/observability"
)

// Server holds the most recent frame output and serves it as JSON.
type Server struct {
	mu      sync.RWMutex
	latest  *core.FrameOutput
	metrics *observability.EngineCollector
}

// NewServer constructs a Server. metrics may be nil; /metrics then serves
// the default registry.
func NewServer(metrics *observability.EngineCollector) *Server {
	return &Server{metrics: metrics}
}

// Publish stores the latest frame output for subsequent reads.
func (s *Server) Publish(out *core.FrameOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = out
}

// Latest returns the most recently published frame output, or nil.
func (s *Server) Latest() *core.FrameOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Router builds the gin handler tree.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/v1/state", func(c *gin.Context) {
		out := s.Latest()
		if out == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame produced yet"})
			return
		}
		c.JSON(http.StatusOK, out)
	})

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	return r
}
