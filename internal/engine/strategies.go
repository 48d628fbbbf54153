/*

This file contains the strategy synthesizer. Five fixed archetypes look at
the same catalog through different lenses; each is filtered and capped
independently, then the set is constrained by the caller's budget and time
and ranked by expected ROI.

*/

package engine

import (
	"sort"
	"strings"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
	"github.com/google/uuid"
)

var strategyLogger = logger.GetForComponent("strategy_synthesizer")

// strategyIDNamespace seeds name-based strategy IDs. Identical inputs must
// yield identical strategies, so IDs are derived, never random.
var strategyIDNamespace = uuid.MustParse("a2fb0d87-44c6-4a33-9d11-3fe0c5b87c02")

// strategyID derives a stable ID from a strategy's name and target set.
func strategyID(name string, targets []string) uuid.UUID {
	return uuid.NewSHA1(strategyIDNamespace, []byte(name+"|"+strings.Join(targets, ",")))
}

// strategyDraft accumulates a strategy before budget/time filtering. Total
// action time is needed for the filter but is not part of the public type.
type strategyDraft struct {
	strategy     types.FarmingStrategy
	totalMinutes int
}

// GenerateStrategies builds the five strategy archetypes over the catalog,
// drops those that do not fit within the budget (USD) or the available time
// (hours), and returns the rest sorted by expected ROI, descending.
func GenerateStrategies(catalog []types.ProtocolActivity, budget float64, timeAvailableHours float64, params types.EngineParameters) []types.FarmingStrategy {
	budget = sanitize(budget)
	maxMinutes := sanitize(timeAvailableHours) * 60

	drafts := []strategyDraft{
		quickWinStrategy(catalog, params),
		highValueStrategy(catalog, params),
		diversifiedStrategy(catalog, params),
		layer2Strategy(catalog, params),
		blueChipStrategy(catalog, params),
	}

	strategies := make([]types.FarmingStrategy, 0, len(drafts))
	for _, draft := range drafts {
		if len(draft.strategy.Actions) == 0 {
			continue
		}
		if draft.strategy.TotalCost > budget || float64(draft.totalMinutes) > maxMinutes {
			strategyLogger.Debug().
				Str("strategy", draft.strategy.Name).
				Float64("totalCost", draft.strategy.TotalCost).
				Int("totalMinutes", draft.totalMinutes).
				Msg("Strategy dropped, exceeds budget or time ceiling")
			continue
		}
		strategies = append(strategies, draft.strategy)
	}

	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].ExpectedROI > strategies[j].ExpectedROI
	})

	strategyLogger.Debug().
		Int("candidates", len(drafts)).
		Int("withinConstraints", len(strategies)).
		Float64("budget", budget).
		Float64("timeAvailableHours", timeAvailableHours).
		Msg("Strategies generated")

	return strategies
}

// assembleStrategy turns a selected protocol list into a finished draft,
// capping the action list at maxActions (0 means no cap).
func assembleStrategy(name, description string, protocols []types.ProtocolActivity, maxActions, timeframeDays int, risk types.RiskLevel, complexity types.Complexity, params types.EngineParameters) strategyDraft {
	targets := make([]string, 0, len(protocols))
	actions := make([]types.FarmingAction, 0, len(protocols))
	for _, protocol := range protocols {
		targets = append(targets, protocol.Name)
		actions = append(actions, GenerateActionsForProtocol(protocol, params)...)
	}
	if maxActions > 0 && len(actions) > maxActions {
		actions = actions[:maxActions]
	}

	var totalCost, expectedReward float64
	var totalMinutes int
	for _, action := range actions {
		totalCost += sanitize(action.EstimatedCost)
		expectedReward += sanitize(action.PotentialReward)
		totalMinutes += action.TimeRequiredMinutes
	}

	return strategyDraft{
		strategy: types.FarmingStrategy{
			ID:              strategyID(name, targets),
			Name:            name,
			Description:     description,
			TargetProtocols: targets,
			Actions:         actions,
			TotalCost:       totalCost,
			ExpectedReward:  expectedReward,
			ExpectedROI:     safeRatio(expectedReward, totalCost, 100),
			TimeframeDays:   timeframeDays,
			RiskLevel:       risk,
			Complexity:      complexity,
		},
		totalMinutes: totalMinutes,
	}
}

// quickWinStrategy targets protocols with few required transactions and at
// least even airdrop odds.
func quickWinStrategy(catalog []types.ProtocolActivity, params types.EngineParameters) strategyDraft {
	selected := make([]types.ProtocolActivity, 0)
	for _, protocol := range catalog {
		if protocol.Requirements.MinTransactions <= params.QuickWinMaxTransactions &&
			clampLikelihood(sanitize(protocol.AirdropLikelihood)) >= params.QuickWinMinLikelihood {
			selected = append(selected, protocol)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].AirdropLikelihood > selected[j].AirdropLikelihood
	})
	selected = capProtocols(selected, params.QuickWinMaxProtocols)

	return assembleStrategy(
		"Quick Wins",
		"Low-effort protocols with few required transactions and strong airdrop odds",
		selected, params.QuickWinMaxActions, 14, types.RiskLow, types.ComplexityBeginner, params)
}

// highValueStrategy takes the protocols with the largest estimated rewards.
func highValueStrategy(catalog []types.ProtocolActivity, params types.EngineParameters) strategyDraft {
	selected := make([]types.ProtocolActivity, len(catalog))
	copy(selected, catalog)
	sort.SliceStable(selected, func(i, j int) bool {
		return EstimatePotentialReward(selected[i], params) > EstimatePotentialReward(selected[j], params)
	})
	selected = capProtocols(selected, params.HighValueMaxProtocols)

	return assembleStrategy(
		"High Value",
		"Protocols with the largest estimated airdrop rewards",
		selected, 0, 60, types.RiskMedium, types.ComplexityIntermediate, params)
}

// diversifiedStrategy picks the best-likelihood protocol in every category.
func diversifiedStrategy(catalog []types.ProtocolActivity, params types.EngineParameters) strategyDraft {
	best := make(map[types.Category]types.ProtocolActivity)
	for _, protocol := range catalog {
		current, ok := best[protocol.Category]
		// Strictly-greater keeps the earliest catalog entry on ties.
		if !ok || protocol.AirdropLikelihood > current.AirdropLikelihood {
			best[protocol.Category] = protocol
		}
	}

	// Iterate the closed category set, not the map, for deterministic order.
	selected := make([]types.ProtocolActivity, 0, len(types.AllCategories))
	for _, category := range types.AllCategories {
		if protocol, ok := best[category]; ok {
			selected = append(selected, protocol)
		}
	}

	return assembleStrategy(
		"Diversified",
		"One best candidate per protocol category for broad eligibility",
		selected, 0, 90, types.RiskLow, types.ComplexityIntermediate, params)
}

// layer2Strategy targets protocols on the configured L2 chains.
func layer2Strategy(catalog []types.ProtocolActivity, params types.EngineParameters) strategyDraft {
	selected := make([]types.ProtocolActivity, 0)
	for _, protocol := range catalog {
		chain := strings.ToLower(protocol.Chain)
		for _, l2 := range params.Layer2Chains {
			if strings.Contains(chain, l2) {
				selected = append(selected, protocol)
				break
			}
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].AirdropLikelihood > selected[j].AirdropLikelihood
	})
	selected = capProtocols(selected, params.Layer2MaxProtocols)

	return assembleStrategy(
		"Layer 2 Focus",
		"Cheap-gas farming across rollup ecosystems with live airdrop narratives",
		selected, 0, 45, types.RiskMedium, types.ComplexityBeginner, params)
}

// blueChipStrategy targets large, established protocols.
func blueChipStrategy(catalog []types.ProtocolActivity, params types.EngineParameters) strategyDraft {
	selected := make([]types.ProtocolActivity, 0)
	for _, protocol := range catalog {
		if sanitize(protocol.TvlUSD) > params.BlueChipMinTvlUSD && protocol.UserCount > params.BlueChipMinUsers {
			selected = append(selected, protocol)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].TvlUSD > selected[j].TvlUSD
	})
	selected = capProtocols(selected, params.BlueChipMaxProtocols)

	return assembleStrategy(
		"Blue Chip",
		"Established high-TVL protocols with large user bases",
		selected, 0, 90, types.RiskLow, types.ComplexityIntermediate, params)
}

func capProtocols(protocols []types.ProtocolActivity, max int) []types.ProtocolActivity {
	if max > 0 && len(protocols) > max {
		return protocols[:max]
	}
	return protocols
}
