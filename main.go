package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/wayplan-core/server/internal/core"
	"github.com/wayplan-core/server/internal/planner/graph"
	"github.com/wayplan-core/server/internal/planner/model"
	"github.com/wayplan-core/server/internal/planner/repo"
	"github.com/wayplan-core/server/internal/server"
	logx "github.com/wayplan-core/server/pkg/logger"
	pkgredis "github.com/wayplan-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Server server.Config
	Store  model.StoreConfig
	Redis  pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Planner configs
	PlannerModel model.PlannerModelConfig
	TextModel    model.TextModelConfig
	Workflow     model.WorkflowConfig
	Weather      model.WeatherConfig
	Currency     model.CurrencyConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})
	logx.Info().Str("environment", env.String()).Msg("Starting travel planner service")

	ttl, err := time.ParseDuration(cfg.Store.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Store.TTL).Msg("Invalid TRIP_STORE_TTL")
	}

	store, cleanup, err := buildTripStore(cfg, ttl)
	if err != nil {
		logx.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to initialise trip store")
	}
	defer cleanup()

	planner, err := graph.BuildTripPlanner(ctx, graph.Config{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		PlannerModel: cfg.PlannerModel,
		TextModel:    cfg.TextModel,
		Workflow:     cfg.Workflow,
		Weather:      cfg.Weather,
		Currency:     cfg.Currency,
		Store:        store,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build trip planner")
	}

	srv := server.New(planner, planner, store)
	if err := server.Run(ctx, cfg.Server, srv.Router()); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server failed")
	}
	logx.Info().Msg("Service stopped")
}

func buildTripStore(cfg AppConfig, ttl time.Duration) (model.TripStore, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "redis":
		rdb, err := cfg.Redis.New()
		if err != nil {
			return nil, nil, err
		}
		logx.Info().Msg("Connected to Redis successfully")
		return repo.NewRedisTripStore(rdb, ttl), func() { _ = rdb.Close() }, nil
	default:
		return repo.NewMemoryTripStore(ttl), func() {}, nil
	}
}
