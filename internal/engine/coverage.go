/*

This file contains the coverage analyzer: which catalog protocols a wallet
already farms, what it is missing, and how diversified its footprint is.

*/

package engine

import (
	"fmt"
	"sort"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
)

var coverageLogger = logger.GetForComponent("coverage_analyzer")

// AnalyzeCurrentFarming splits the catalog into protocols the wallet already
// uses and high-potential protocols it does not, scores category
// diversification, and emits recommendations.
//
// The diversification denominator is the fixed count of known categories,
// not whatever categories the catalog happens to contain, so the score is
// stable across catalog revisions.
func AnalyzeCurrentFarming(userProtocolIDs []string, catalog []types.ProtocolActivity, params types.EngineParameters) types.CoverageReport {
	used := make(map[string]struct{}, len(userProtocolIDs))
	for _, id := range userProtocolIDs {
		used[id] = struct{}{}
	}

	covered := make([]types.ProtocolActivity, 0, len(userProtocolIDs))
	missed := make([]types.ProtocolActivity, 0)
	categories := make(map[types.Category]struct{})
	totalReward := 0.0

	for _, protocol := range catalog {
		if _, ok := used[protocol.Name]; ok {
			covered = append(covered, protocol)
			categories[protocol.Category] = struct{}{}
			totalReward += EstimatePotentialReward(protocol, params)
			continue
		}
		if clampLikelihood(sanitize(protocol.AirdropLikelihood)) >= params.MinLikelihood {
			missed = append(missed, protocol)
		}
	}

	// Stable sort: ties keep catalog order so output is deterministic.
	sort.SliceStable(missed, func(i, j int) bool {
		return missed[i].AirdropLikelihood > missed[j].AirdropLikelihood
	})

	diversification := float64(len(categories)) / float64(len(types.AllCategories)) * 100

	recommendations := make([]string, 0, 3)
	if diversification < params.DiversificationWarningBelow {
		recommendations = append(recommendations,
			"Diversify across more protocol categories to broaden eligibility")
	}
	if len(missed) > params.MissedProtocolWarningCount {
		recommendations = append(recommendations,
			fmt.Sprintf("%d high-potential protocols are not being farmed yet", len(missed)))
	}
	if len(covered) > 0 {
		var txSum float64
		for _, protocol := range covered {
			txSum += float64(protocol.Requirements.MinTransactions)
		}
		if txSum/float64(len(covered)) > params.HeavyRequirementsMeanMinTxns {
			recommendations = append(recommendations,
				"Finish the requirements of current protocols before adding new ones")
		}
	}

	coverageLogger.Debug().
		Int("covered", len(covered)).
		Int("missed", len(missed)).
		Float64("diversificationScore", diversification).
		Float64("estimatedTotalReward", totalReward).
		Msg("Coverage analyzed")

	return types.CoverageReport{
		Covered:              covered,
		Missed:               missed,
		DiversificationScore: diversification,
		EstimatedTotalReward: totalReward,
		Recommendations:      recommendations,
	}
}
