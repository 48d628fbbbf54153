/*

This file contains the reward estimator, the leaf every other engine
component builds on.

*/

package engine

import (
	"math"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
)

var rewardLogger = logger.GetForComponent("reward_estimator")

// EstimatePotentialReward estimates the reward a wallet could expect from a
// protocol's airdrop, in USD.
//
// With at least one historical airdrop, the estimate is the mean historical
// reward scaled by the likelihood. Without history it falls back to a
// TVL-derived guess: $1 per TvlPerEstimateUnit of TVL, hard-capped at
// FallbackRewardCap, then scaled by the likelihood.
//
// The function is total: malformed numeric input (NaN, Inf, negatives) is
// read as zero and the result is always a finite non-negative number.
func EstimatePotentialReward(protocol types.ProtocolActivity, params types.EngineParameters) float64 {
	likelihood := clampLikelihood(sanitize(protocol.AirdropLikelihood))

	if len(protocol.HistoricalAirdrops) > 0 {
		var sum float64
		for _, drop := range protocol.HistoricalAirdrops {
			sum += sanitize(drop.AvgReward)
		}
		mean := sum / float64(len(protocol.HistoricalAirdrops))
		return mean * likelihood / 100
	}

	perUnit := sanitize(params.TvlPerEstimateUnit)
	if perUnit == 0 {
		rewardLogger.Warn().
			Str("protocol", protocol.Name).
			Msg("TvlPerEstimateUnit is zero, fallback estimate is zero")
		return 0
	}

	base := math.Min(sanitize(protocol.TvlUSD)/perUnit, sanitize(params.FallbackRewardCap))
	return base * likelihood / 100
}

// sanitize maps NaN, Inf, and negative values to zero. The engine is a
// best-effort estimator, not a validator; degenerate numbers degrade to
// zero instead of propagating.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// clampLikelihood bounds a likelihood score to [0, 100].
func clampLikelihood(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// safeRatio returns numerator/denominator*scale, or 0 when the denominator
// is zero or the result would not be finite.
func safeRatio(numerator, denominator, scale float64) float64 {
	if denominator == 0 {
		return 0
	}
	ratio := numerator / denominator * scale
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return ratio
}
