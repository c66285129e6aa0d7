// Package server exposes the company catalog over HTTP and relays report
// searches to the discovery backend.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/config"
)

const (
	DefaultListen      = ":8000"
	DefaultCacheTTL    = 5 * time.Minute
	searchTimeout      = 3 * time.Minute
	shutdownTimeout    = 10 * time.Second
	limiterIdleExpiry  = 10 * time.Minute
	cacheCleanupPeriod = 10 * time.Minute
)

// Server is the irfinder HTTP service
type Server struct {
	cfg         config.Server
	resolver    *company.Resolver
	gateway     *Gateway
	resolutions *cache.Cache
	limiters    *cache.Cache
	router      *gin.Engine
}

// New wires the routes for cfg over resolver
func New(cfg config.Server, resolver *company.Resolver) *Server {
	ttl := DefaultCacheTTL
	if cfg.CacheTTL > 0 {
		ttl = time.Duration(cfg.CacheTTL) * time.Second
	}

	s := &Server{
		cfg:         cfg,
		resolver:    resolver,
		gateway:     NewGateway(cfg.DiscoveryURL, cfg.OpenAIKey, cfg.SerperKey, searchTimeout),
		resolutions: cache.New(ttl, cacheCleanupPeriod),
		limiters:    cache.New(limiterIdleExpiry, cacheCleanupPeriod),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryMiddleware, ZerologMiddleware(), CORS(cfg))
	limited := RateLimiter(s.limiters, cfg.RateLimit, cfg.RateBurst)

	s.RegisterRoutes(r.Group("/api", limited))
	r.POST("/search", limited, s.searchReports)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "detail": "Not found"})
	})

	s.router = r
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Listen
	if addr == "" {
		addr = DefaultListen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Int("companies", s.resolver.Catalog().Len()).
			Bool("discovery", s.gateway != nil).
			Msg("Server starting")
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

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Server exited")
	return nil
}
