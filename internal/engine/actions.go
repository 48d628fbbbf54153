/*

This file contains the candidate action generator. Action templates are a
lookup table keyed by protocol category so the rule set stays auditable;
categories without a template produce no actions.

*/

package engine

import (
	"strings"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
)

var actionLogger = logger.GetForComponent("action_generator")

// actionTemplate describes one category-specific unit of farming work.
// Cost is expressed as a multiplier over the chain's base gas cost.
type actionTemplate struct {
	label          string
	costMultiplier float64
	timeMinutes    int
	difficulty     types.Difficulty
}

var actionTemplates = map[types.Category][]actionTemplate{
	types.CategoryDex: {
		{label: "Make a swap", costMultiplier: 1.0, timeMinutes: 5, difficulty: types.DifficultyEasy},
	},
	types.CategoryLending: {
		{label: "Deposit and borrow", costMultiplier: 2.0, timeMinutes: 10, difficulty: types.DifficultyMedium},
	},
	types.CategoryBridge: {
		{label: "Bridge assets", costMultiplier: 1.5, timeMinutes: 8, difficulty: types.DifficultyEasy},
	},
}

// GenerateActionsForProtocol produces the candidate actions for one protocol.
//
// The per-action reward is the protocol's estimated reward divided evenly
// across its required transaction count. Actions whose cost exceeds
// MaxGasBudgetPercent of their own reward are dropped; a zero
// MaxGasBudgetPercent disables that guard.
func GenerateActionsForProtocol(protocol types.ProtocolActivity, params types.EngineParameters) []types.FarmingAction {
	templates, ok := actionTemplates[protocol.Category]
	if !ok {
		return []types.FarmingAction{}
	}

	baseGas := sanitize(params.Layer2BaseGasCost)
	if strings.Contains(strings.ToLower(protocol.Chain), "ethereum") {
		baseGas = sanitize(params.EthereumBaseGasCost)
	}

	minTransactions := protocol.Requirements.MinTransactions
	if minTransactions < 1 {
		minTransactions = 1
	}
	reward := EstimatePotentialReward(protocol, params) / float64(minTransactions)

	actions := make([]types.FarmingAction, 0, len(templates))
	for _, tmpl := range templates {
		cost := baseGas * tmpl.costMultiplier

		if params.MaxGasBudgetPercent > 0 && cost > params.MaxGasBudgetPercent*reward {
			actionLogger.Debug().
				Str("protocol", protocol.Name).
				Str("action", tmpl.label).
				Float64("cost", cost).
				Float64("reward", reward).
				Float64("maxGasBudgetPercent", params.MaxGasBudgetPercent).
				Msg("Dropping action, cost exceeds gas budget fraction of reward")
			continue
		}

		actions = append(actions, types.FarmingAction{
			Protocol:            protocol.Name,
			Action:              tmpl.label,
			Category:            protocol.Category,
			EstimatedCost:       cost,
			PotentialReward:     reward,
			ROI:                 safeRatio(reward, cost, 100),
			TimeRequiredMinutes: tmpl.timeMinutes,
			Difficulty:          tmpl.difficulty,
			Priority:            types.PriorityHigh,
		})
	}

	return actions
}
