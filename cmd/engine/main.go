package main

import (
	"os"

	"github.com/farmsight/engine/internal/catalog"
	"github.com/farmsight/engine/internal/config"
	"github.com/farmsight/engine/internal/engine"
	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/state"
	"github.com/farmsight/engine/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DEFAULT_ENGINE_CONFIG_NAME    = "default_engine_parameters"
	DEFAULT_ENGINE_CONFIG_VERSION = 1
)

// main is the entry point for the farming optimization engine service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Farming Optimization Engine Starting...")

	// Initialize Database Connection
	dbCfg := state.DBConfig{
		Host: config.DBHost, Port: config.DBPort,
		User: config.DBUser, Password: config.DBPassword,
		DBName: config.DBName, SSLMode: config.DBSSLMode,
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// Load Engine Parameters, falling back to defaults on first run
	engineParams, err := state.LoadActiveEngineParameters(DEFAULT_ENGINE_CONFIG_NAME)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load active engine parameters, using defaults and saving.")
		defaultParams := config.DefaultEngineParameters
		if _, err := state.SaveEngineParameters(defaultParams, DEFAULT_ENGINE_CONFIG_NAME, DEFAULT_ENGINE_CONFIG_VERSION, true); err != nil {
			log.Fatal().Err(err).Msg("Failed to save initial default engine parameters.")
		}
		engineParams = &defaultParams
	}
	if err := engine.ValidateEngineParameters(*engineParams); err != nil {
		log.Fatal().Err(err).Msg("Active engine parameters are invalid")
	}
	log.Info().Msg("Engine parameters loaded successfully.")

	// --- 2. Catalog Service ---
	catalogService, err := catalog.NewService(state.LoadCatalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create catalog service")
	}
	if err := catalogService.Refresh(); err != nil {
		log.Warn().Err(err).Msg("Initial catalog load failed, serving empty catalog until next refresh")
	}
	if err := catalogService.StartRefreshing(config.CatalogRefreshSpec); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule catalog refresh")
	}
	defer catalogService.Stop()

	// --- 3. Reward Estimator with shared cache ---
	estimator, err := engine.NewRewardEstimator(*engineParams)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create reward estimator")
	}
	defer estimator.Close()

	// --- 4. Serve ---
	server := web.NewServer(config.WebPort, catalogService, *engineParams, estimator)
	log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting farming engine API")
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("API server failed")
	}
}
