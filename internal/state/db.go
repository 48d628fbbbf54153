// ./internal/state/db.go
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// TestDBConnection verifies the database is reachable.
func TestDBConnection() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Ping()
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS protocols (
			name VARCHAR(255) PRIMARY KEY,
			chain VARCHAR(255) NOT NULL,
			category VARCHAR(32) NOT NULL,
			user_count BIGINT NOT NULL DEFAULT 0,
			tvl_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
			airdrop_likelihood DOUBLE PRECISION NOT NULL DEFAULT 0,
			min_transactions INTEGER NOT NULL DEFAULT 0,
			min_volume_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
			min_time_active_days INTEGER NOT NULL DEFAULT 0,
			additional_criteria TEXT[] NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS historical_airdrops (
			airdrop_id SERIAL PRIMARY KEY,
			protocol_name VARCHAR(255) NOT NULL REFERENCES protocols(name) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			airdrop_date TIMESTAMPTZ NOT NULL,
			avg_reward DOUBLE PRECISION NOT NULL DEFAULT 0,
			criteria TEXT[] NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS idx_historical_airdrops_protocol ON historical_airdrops(protocol_name, airdrop_date);

		CREATE TABLE IF NOT EXISTS wallet_activity (
			wallet_address VARCHAR(64) NOT NULL,
			protocol_name VARCHAR(255) NOT NULL REFERENCES protocols(name) ON DELETE CASCADE,
			transactions INTEGER NOT NULL DEFAULT 0,
			volume_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
			days_active INTEGER NOT NULL DEFAULT 0,
			completed_criteria TEXT[] NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (wallet_address, protocol_name)
		);
		CREATE INDEX IF NOT EXISTS idx_wallet_activity_wallet ON wallet_activity(wallet_address);

		CREATE TABLE IF NOT EXISTS engine_parameters (
			params_id SERIAL PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			config_name VARCHAR(255) NOT NULL DEFAULT 'default',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			activated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			min_likelihood DOUBLE PRECISION NOT NULL,
			max_gas_budget_percent DOUBLE PRECISION NOT NULL,
			tvl_per_estimate_unit DOUBLE PRECISION NOT NULL,
			fallback_reward_cap DOUBLE PRECISION NOT NULL,
			ethereum_base_gas_cost DOUBLE PRECISION NOT NULL,
			layer2_base_gas_cost DOUBLE PRECISION NOT NULL,
			diversification_warning_below DOUBLE PRECISION NOT NULL,
			missed_protocol_warning_count INTEGER NOT NULL,
			heavy_requirements_mean_min_txns DOUBLE PRECISION NOT NULL,
			quick_win_max_transactions INTEGER NOT NULL,
			quick_win_min_likelihood DOUBLE PRECISION NOT NULL,
			quick_win_max_protocols INTEGER NOT NULL,
			quick_win_max_actions INTEGER NOT NULL,
			high_value_max_protocols INTEGER NOT NULL,
			layer2_chains TEXT[] NOT NULL,
			layer2_max_protocols INTEGER NOT NULL,
			blue_chip_min_tvl_usd DOUBLE PRECISION NOT NULL,
			blue_chip_min_users BIGINT NOT NULL,
			blue_chip_max_protocols INTEGER NOT NULL,
			high_tvl_threshold DOUBLE PRECISION NOT NULL,
			high_tvl_boost DOUBLE PRECISION NOT NULL,
			large_user_base_threshold BIGINT NOT NULL,
			large_user_base_boost DOUBLE PRECISION NOT NULL,
			regular_cadence_max_days DOUBLE PRECISION NOT NULL,
			regular_cadence_boost DOUBLE PRECISION NOT NULL,
			gap_progress_weight DOUBLE PRECISION NOT NULL,
			gap_reward_cost_weight DOUBLE PRECISION NOT NULL,
			CONSTRAINT uq_engine_parameters_config_version UNIQUE (config_name, version)
		);
		CREATE INDEX IF NOT EXISTS idx_engine_parameters_config_active ON engine_parameters(config_name, is_active, activated_at DESC);
	`

	if _, err := DB.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	log.Info().Msg("Database schema ensured.")
	return nil
}
