/*

This file contains the future-airdrop predictor: additive heuristic
adjustments over a protocol's base likelihood, a coarse timeline bucket,
and the preparation steps a wallet should take now.

*/

package engine

import (
	"fmt"
	"sort"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
)

var predictLogger = logger.GetForComponent("airdrop_predictor")

// PredictFutureAirdrops forecasts airdrop likelihood and timing for every
// catalog protocol. Each adjustment applies independently and the result is
// clamped to 100. Only protocols at or above the engine-wide minimum
// likelihood are returned, sorted by likelihood descending.
func PredictFutureAirdrops(catalog []types.ProtocolActivity, params types.EngineParameters) []types.AirdropPrediction {
	predictions := make([]types.AirdropPrediction, 0, len(catalog))

	for _, protocol := range catalog {
		likelihood := clampLikelihood(sanitize(protocol.AirdropLikelihood))
		reasoning := make([]string, 0, 3)

		noHistory := len(protocol.HistoricalAirdrops) == 0
		if noHistory && sanitize(protocol.TvlUSD) > params.HighTvlThreshold {
			likelihood += params.HighTvlBoost
			reasoning = append(reasoning, "High TVL without a token suggests a distribution is still ahead")
		}
		if noHistory && protocol.UserCount > params.LargeUserBaseThreshold {
			likelihood += params.LargeUserBaseBoost
			reasoning = append(reasoning, "Large user base with no rewards program yet")
		}
		if interval, ok := meanAirdropIntervalDays(protocol.HistoricalAirdrops); ok && interval < params.RegularCadenceMaxDays {
			likelihood += params.RegularCadenceBoost
			reasoning = append(reasoning, "Regular airdrop history points to another round")
		}

		likelihood = clampLikelihood(likelihood)
		if likelihood < params.MinLikelihood {
			continue
		}

		predictions = append(predictions, types.AirdropPrediction{
			Protocol:          protocol.Name,
			Likelihood:        likelihood,
			EstimatedTimeline: timelineBucket(likelihood),
			Reasoning:         reasoning,
			PreparationSteps:  preparationSteps(protocol.Requirements),
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Likelihood > predictions[j].Likelihood
	})

	predictLogger.Debug().
		Int("protocols", len(catalog)).
		Int("predictions", len(predictions)).
		Msg("Future airdrops predicted")

	return predictions
}

// meanAirdropIntervalDays computes the mean gap between consecutive past
// airdrops. At least two dated airdrops are needed for an interval to exist.
func meanAirdropIntervalDays(history []types.HistoricalAirdrop) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}

	dates := make([]int64, 0, len(history))
	for _, drop := range history {
		if !drop.Date.IsZero() {
			dates = append(dates, drop.Date.Unix())
		}
	}
	if len(dates) < 2 {
		return 0, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	var totalSeconds int64
	for i := 1; i < len(dates); i++ {
		totalSeconds += dates[i] - dates[i-1]
	}
	meanSeconds := float64(totalSeconds) / float64(len(dates)-1)
	return meanSeconds / 86400, true
}

// timelineBucket maps an adjusted likelihood to a coarse timeline estimate.
func timelineBucket(likelihood float64) string {
	switch {
	case likelihood > 70:
		return "3-6 months"
	case likelihood > 50:
		return "6-12 months"
	case likelihood > 30:
		return "12+ months"
	default:
		return "Unknown"
	}
}

// preparationSteps renders the structured requirements as imperative steps,
// followed by each additional criterion verbatim.
func preparationSteps(req types.Requirements) []string {
	steps := make([]string, 0, 3+len(req.AdditionalCriteria))
	steps = append(steps,
		fmt.Sprintf("Complete at least %d transactions", req.MinTransactions),
		fmt.Sprintf("Reach at least $%.0f in total volume", sanitize(req.MinVolumeUSD)),
		fmt.Sprintf("Stay active for at least %d days", req.MinTimeActiveDays),
	)
	steps = append(steps, req.AdditionalCriteria...)
	return steps
}
