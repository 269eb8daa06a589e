package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// PlannerService runs one complete trip-planning workflow per call.
type PlannerService interface {
	PlanTrip(ctx context.Context, req model.TripRequest) (*model.TripState, error)
}

// ToolInvoker runs a single registered tool by name, outside the workflow.
type ToolInvoker interface {
	InvokeTool(ctx context.Context, name, argumentsJSON string) (string, error)
}

// Config holds the HTTP server parameters, sourced from environment variables.
type Config struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8000"`

	// Planning runs block on several model round trips, so the write
	// timeout is much larger than usual.
	ReadTimeoutSeconds     int `envconfig:"SERVER_READ_TIMEOUT" default:"30"`
	WriteTimeoutSeconds    int `envconfig:"SERVER_WRITE_TIMEOUT" default:"300"`
	ShutdownTimeoutSeconds int `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10"`
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Server exposes the planner, the trip store and the direct tool endpoints
// over HTTP.
type Server struct {
	planner PlannerService
	tools   ToolInvoker
	store   model.TripStore
}

func New(planner PlannerService, tools ToolInvoker, store model.TripStore) *Server {
	return &Server{planner: planner, tools: tools, store: store}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Post("/plan-trip", s.handlePlanTrip)
	r.Route("/trip/{tripID}", func(r chi.Router) {
		r.Get("/", s.handleGetTrip)
		r.Get("/export", s.handleExportTrip)
	})

	r.Post("/weather", s.handleWeather)
	r.Post("/attractions", s.handleAttractions)
	r.Post("/hotels", s.handleHotels)
	r.Post("/currency", s.handleCurrency)
	r.Post("/nearby-places", s.handleNearbyPlaces)

	return r
}

// Run serves the handler until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, h http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logx.Info().Str("addr", cfg.Addr()).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		logx.Info().Msg("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logx.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}
