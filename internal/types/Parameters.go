/*

This file contains the tunable thresholds and coefficients for the farming
engine. Different parameter sets can be stored in the database and activated
without a redeploy.

*/

package types

// EngineParameters holds every tunable threshold used by the farming engine.
// The engine itself is stateless; a parameters value is passed into each
// call, so concurrent requests can safely run against different versions.
type EngineParameters struct {
	// --- Global thresholds ---
	MinLikelihood       float64 `json:"min_likelihood"`         // Minimum airdrop likelihood (0-100) for a protocol to be surfaced at all.
	MaxGasBudgetPercent float64 `json:"max_gas_budget_percent"` // Drop a candidate action when its cost exceeds this fraction of its own potential reward (0 disables).

	// --- Reward estimation ---
	TvlPerEstimateUnit float64 `json:"tvl_per_estimate_unit"` // USD of TVL per $1 of fallback reward estimate.
	FallbackRewardCap  float64 `json:"fallback_reward_cap"`   // Hard cap on the TVL-derived estimate before likelihood scaling.

	// --- Action generation ---
	EthereumBaseGasCost float64 `json:"ethereum_base_gas_cost"` // Flat per-action gas approximation on Ethereum mainnet, USD.
	Layer2BaseGasCost   float64 `json:"layer2_base_gas_cost"`   // Flat per-action gas approximation on everything else, USD.

	// --- Coverage recommendations ---
	DiversificationWarningBelow   float64 `json:"diversification_warning_below"`   // Recommend diversifying below this score.
	MissedProtocolWarningCount    int     `json:"missed_protocol_warning_count"`   // Report missed high-potential protocols above this count.
	HeavyRequirementsMeanMinTxns  float64 `json:"heavy_requirements_mean_min_txns"` // Recommend finishing existing protocols above this mean requirement.

	// --- Strategy archetypes ---
	QuickWinMaxTransactions int      `json:"quick_win_max_transactions"`
	QuickWinMinLikelihood   float64  `json:"quick_win_min_likelihood"`
	QuickWinMaxProtocols    int      `json:"quick_win_max_protocols"`
	QuickWinMaxActions      int      `json:"quick_win_max_actions"`
	HighValueMaxProtocols   int      `json:"high_value_max_protocols"`
	Layer2Chains            []string `json:"layer2_chains"` // Substrings matched against the chain name, lower case.
	Layer2MaxProtocols      int      `json:"layer2_max_protocols"`
	BlueChipMinTvlUSD       float64  `json:"blue_chip_min_tvl_usd"`
	BlueChipMinUsers        int64    `json:"blue_chip_min_users"`
	BlueChipMaxProtocols    int      `json:"blue_chip_max_protocols"`

	// --- Future-airdrop prediction ---
	HighTvlThreshold        float64 `json:"high_tvl_threshold"`         // TVL above which a token-less protocol gets a likelihood boost.
	HighTvlBoost            float64 `json:"high_tvl_boost"`
	LargeUserBaseThreshold  int64   `json:"large_user_base_threshold"`  // User count above which a token-less protocol gets a boost.
	LargeUserBaseBoost      float64 `json:"large_user_base_boost"`
	RegularCadenceMaxDays   float64 `json:"regular_cadence_max_days"`   // Mean gap between past airdrops below which cadence is "regular".
	RegularCadenceBoost     float64 `json:"regular_cadence_boost"`

	// --- Gap ranking ---
	GapProgressWeight   float64 `json:"gap_progress_weight"`    // Weight of completion progress in gap ordering.
	GapRewardCostWeight float64 `json:"gap_reward_cost_weight"` // Weight of reward-per-cost in gap ordering.
}
