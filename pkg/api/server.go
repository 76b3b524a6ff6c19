// Package api serves the shift signup REST and live endpoints over gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/config"
	"github.com/jakechorley/shiftsignup/internal/metrics"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

const shutdownTimeout = 10 * time.Second

// Server holds the dependencies of the route handlers
type Server struct {
	store   db.Database
	cfg     *config.Config
	logger  *zap.Logger
	secret  []byte
	limiter *signupLimiter
	router  *gin.Engine
}

// NewServer builds the router. cfg.JWTSecret must be set.
func NewServer(store db.Database, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%s is required to serve the API", config.EnvJWTSecret)
	}

	metrics.Register()

	s := &Server{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		secret:  []byte(cfg.JWTSecret),
		limiter: newSignupLimiter(cfg.HTTP.SignupRatePerMinute),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/events/:eventID/live", s.LiveAuthMiddleware(), s.Live)

	api := r.Group("/api")
	api.Use(s.AuthMiddleware())
	{
		api.GET("/events/:eventID/timeslots", s.ListTimeslots)
		api.POST("/timeslots/:id/signups", s.limiter.Limit(), s.Signup)
		api.POST("/signups/:id/cancel", s.CancelSignup)
		api.GET("/me/signups", s.MySignups)
	}

	admin := api.Group("")
	admin.Use(s.AdminOnly())
	{
		admin.POST("/events/:eventID/timeslots/generate", s.GenerateTimeslots)
		admin.POST("/events/:eventID/timeslots", s.CreateTimeslot)
		admin.PATCH("/timeslots/:id", s.UpdateTimeslot)
		admin.DELETE("/timeslots/:id", s.DeleteTimeslot)
		admin.PUT("/timeslots/:id/team-lead", s.AssignTeamLead)
		admin.DELETE("/timeslots/:id/team-lead", s.RemoveTeamLead)
		admin.POST("/signups/:id/attendance", s.MarkAttendance)
	}

	return r
}

// Handler returns the router wrapped in the configured CORS policy.
// With no allowed origins configured, cross-origin requests get no CORS headers.
func (s *Server) Handler() http.Handler {
	origins := s.cfg.HTTP.AllowedOrigins
	if len(origins) == 0 {
		return s.router
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		// A wildcard origin never gets credentials
		AllowCredentials: !slices.Contains(origins, "*"),
	}).Handler(s.router)
}

// Run serves on the configured address until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       7 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
