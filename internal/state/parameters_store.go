/*

This file contains persistence for versioned engine parameter sets. One row
per (config_name, version); at most one active row per config_name.

*/

package state

import (
	"database/sql"
	"fmt"

	"github.com/farmsight/engine/internal/types"
	"github.com/lib/pq"
)

// SaveEngineParameters stores a parameter set as a new version and
// optionally activates it, deactivating every other version of the same
// config in the same transaction. Returns the new row's ID.
func SaveEngineParameters(params types.EngineParameters, configName string, version int, makeActive bool) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if makeActive {
		if _, err := tx.Exec(
			`UPDATE engine_parameters SET is_active = FALSE WHERE config_name = $1 AND is_active = TRUE`,
			configName); err != nil {
			return 0, fmt.Errorf("failed to deactivate previous parameters: %w", err)
		}
	}

	var paramsID int64
	err = tx.QueryRow(`
		INSERT INTO engine_parameters (
			version, config_name, is_active,
			min_likelihood, max_gas_budget_percent,
			tvl_per_estimate_unit, fallback_reward_cap,
			ethereum_base_gas_cost, layer2_base_gas_cost,
			diversification_warning_below, missed_protocol_warning_count, heavy_requirements_mean_min_txns,
			quick_win_max_transactions, quick_win_min_likelihood, quick_win_max_protocols, quick_win_max_actions,
			high_value_max_protocols, layer2_chains, layer2_max_protocols,
			blue_chip_min_tvl_usd, blue_chip_min_users, blue_chip_max_protocols,
			high_tvl_threshold, high_tvl_boost,
			large_user_base_threshold, large_user_base_boost,
			regular_cadence_max_days, regular_cadence_boost,
			gap_progress_weight, gap_reward_cost_weight
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
		RETURNING params_id`,
		version, configName, makeActive,
		params.MinLikelihood, params.MaxGasBudgetPercent,
		params.TvlPerEstimateUnit, params.FallbackRewardCap,
		params.EthereumBaseGasCost, params.Layer2BaseGasCost,
		params.DiversificationWarningBelow, params.MissedProtocolWarningCount, params.HeavyRequirementsMeanMinTxns,
		params.QuickWinMaxTransactions, params.QuickWinMinLikelihood, params.QuickWinMaxProtocols, params.QuickWinMaxActions,
		params.HighValueMaxProtocols, pq.Array(params.Layer2Chains), params.Layer2MaxProtocols,
		params.BlueChipMinTvlUSD, params.BlueChipMinUsers, params.BlueChipMaxProtocols,
		params.HighTvlThreshold, params.HighTvlBoost,
		params.LargeUserBaseThreshold, params.LargeUserBaseBoost,
		params.RegularCadenceMaxDays, params.RegularCadenceBoost,
		params.GapProgressWeight, params.GapRewardCostWeight,
	).Scan(&paramsID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert engine parameters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit engine parameters: %w", err)
	}
	return paramsID, nil
}

// LoadActiveEngineParameters returns the active parameter set for a config
// name, or an error when none has been activated yet.
func LoadActiveEngineParameters(configName string) (*types.EngineParameters, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	row := DB.QueryRow(`
		SELECT
			min_likelihood, max_gas_budget_percent,
			tvl_per_estimate_unit, fallback_reward_cap,
			ethereum_base_gas_cost, layer2_base_gas_cost,
			diversification_warning_below, missed_protocol_warning_count, heavy_requirements_mean_min_txns,
			quick_win_max_transactions, quick_win_min_likelihood, quick_win_max_protocols, quick_win_max_actions,
			high_value_max_protocols, layer2_chains, layer2_max_protocols,
			blue_chip_min_tvl_usd, blue_chip_min_users, blue_chip_max_protocols,
			high_tvl_threshold, high_tvl_boost,
			large_user_base_threshold, large_user_base_boost,
			regular_cadence_max_days, regular_cadence_boost,
			gap_progress_weight, gap_reward_cost_weight
		FROM engine_parameters
		WHERE config_name = $1 AND is_active = TRUE
		ORDER BY activated_at DESC
		LIMIT 1`, configName)

	var params types.EngineParameters
	var chains pq.StringArray
	err := row.Scan(
		&params.MinLikelihood, &params.MaxGasBudgetPercent,
		&params.TvlPerEstimateUnit, &params.FallbackRewardCap,
		&params.EthereumBaseGasCost, &params.Layer2BaseGasCost,
		&params.DiversificationWarningBelow, &params.MissedProtocolWarningCount, &params.HeavyRequirementsMeanMinTxns,
		&params.QuickWinMaxTransactions, &params.QuickWinMinLikelihood, &params.QuickWinMaxProtocols, &params.QuickWinMaxActions,
		&params.HighValueMaxProtocols, &chains, &params.Layer2MaxProtocols,
		&params.BlueChipMinTvlUSD, &params.BlueChipMinUsers, &params.BlueChipMaxProtocols,
		&params.HighTvlThreshold, &params.HighTvlBoost,
		&params.LargeUserBaseThreshold, &params.LargeUserBaseBoost,
		&params.RegularCadenceMaxDays, &params.RegularCadenceBoost,
		&params.GapProgressWeight, &params.GapRewardCostWeight,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no active engine parameters for config %s", configName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active engine parameters: %w", err)
	}

	params.Layer2Chains = chains
	return &params, nil
}
