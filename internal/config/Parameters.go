/*

This file contains the default parameters for the farming engine.

Every reward figure the engine emits is an explicit heuristic, not a
forecast. These defaults are tuned to surface realistic, low-regret
farming work rather than to chase speculative upside.

*/

package config

import (
	"github.com/farmsight/engine/internal/types"
)

// DefaultEngineParameters provides a baseline set of parameters for the
// farming engine. These values are used if no active parameters are found
// in the database during initialization.
var DefaultEngineParameters = types.EngineParameters{
	// --- Global thresholds ---
	MinLikelihood: 40, // Surface a protocol only above 40/100 likelihood.
	// Rationale: below this, the expected value of farming work rarely
	// covers gas. The same floor applies to missed-opportunity reporting
	// and future-airdrop predictions so every list is consistent.

	MaxGasBudgetPercent: 0.3, // Drop actions costing more than 30% of their own reward.
	// Rationale: an action whose gas eats a third of the heuristic reward
	// is a losing trade once the estimate's error bars are considered.
	// Enforced at generation time so every downstream consumer inherits it.

	// --- Reward estimation ---
	TvlPerEstimateUnit: 1_000_000, // $1 of estimate per $1M of TVL.
	FallbackRewardCap:  1000,      // Cap the TVL-derived estimate at $1000.
	// Rationale: protocols with no airdrop history get a TVL-scaled guess.
	// The cap keeps mega-TVL protocols from dominating every ranking on
	// the strength of a number we invented.

	// --- Action generation ---
	EthereumBaseGasCost: 15, // Flat mainnet approximation per action.
	Layer2BaseGasCost:   2,  // Flat approximation everywhere else.
	// Rationale: precise gas simulation is out of scope; a two-tier flat
	// model keeps ROI comparisons honest between L1 and L2 work.

	// --- Coverage recommendations ---
	DiversificationWarningBelow:  50, // Nudge toward new categories below half coverage.
	MissedProtocolWarningCount:   5,  // Call out missed protocols once more than 5 qualify.
	HeavyRequirementsMeanMinTxns: 10, // Suggest finishing current protocols above a mean of 10 required txns.

	// --- Strategy archetypes ---
	QuickWinMaxTransactions: 5,  // "Quick wins" = protocols needing at most 5 transactions.
	QuickWinMinLikelihood:   50, // ...and at least even odds of an airdrop.
	QuickWinMaxProtocols:    5,
	QuickWinMaxActions:      15,
	HighValueMaxProtocols:   5,
	Layer2Chains:            []string{"arbitrum", "optimism", "base", "zksync", "linea", "scroll"},
	Layer2MaxProtocols:      6,
	BlueChipMinTvlUSD:       100_000_000, // $100M TVL floor for the blue-chip lens.
	BlueChipMinUsers:        100_000,     // 100k users floor.
	BlueChipMaxProtocols:    5,

	// --- Future-airdrop prediction ---
	HighTvlThreshold:       100_000_000, // $100M TVL with no token is a strong signal.
	HighTvlBoost:           15,
	LargeUserBaseThreshold: 50_000, // 50k users with no rewards program.
	LargeUserBaseBoost:     10,
	RegularCadenceMaxDays:  365, // A sub-yearly mean gap between airdrops counts as a cadence.
	RegularCadenceBoost:    20,

	// --- Gap ranking ---
	GapProgressWeight:   0.7, // Favor protocols the wallet is close to completing.
	GapRewardCostWeight: 0.3, // ...tempered by reward-per-cost.
}
