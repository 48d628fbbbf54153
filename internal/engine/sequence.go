/*

This file contains the action sequencer: a greedy, ROI-ordered selection of
actions under a spend budget and a time ceiling.

Greedy-by-ROI is a knapsack approximation, not an exact solver. Actions are
small and heterogeneous, so the approximation gap is acceptable and the
result stays deterministic and fast for interactive use.

*/

package engine

import (
	"sort"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
)

var sequenceLogger = logger.GetForComponent("action_sequencer")

// OptimizeActionSequence selects a subset of candidate actions maximizing
// expected reward while keeping total cost within maxBudget (USD) and total
// time within maxTimeHours.
//
// Candidates are walked in descending ROI order; an action that does not
// fit is skipped, not a stopping point, so cheaper actions further down the
// ranking can still be admitted. An empty candidate list yields an empty
// sequence with zero totals.
func OptimizeActionSequence(actions []types.FarmingAction, maxBudget float64, maxTimeHours float64) types.ActionSequence {
	maxBudget = sanitize(maxBudget)
	maxMinutes := sanitize(maxTimeHours) * 60

	ranked := make([]types.FarmingAction, len(actions))
	copy(ranked, actions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ROI > ranked[j].ROI
	})

	sequence := make([]types.FarmingAction, 0, len(ranked))
	var totalCost, totalReward float64
	var totalMinutes float64

	for _, action := range ranked {
		cost := sanitize(action.EstimatedCost)
		minutes := float64(action.TimeRequiredMinutes)
		if minutes < 0 {
			minutes = 0
		}

		if totalCost+cost > maxBudget || totalMinutes+minutes > maxMinutes {
			continue
		}

		sequence = append(sequence, action)
		totalCost += cost
		totalMinutes += minutes
		totalReward += sanitize(action.PotentialReward)
	}

	sequenceLogger.Debug().
		Int("candidates", len(actions)).
		Int("selected", len(sequence)).
		Float64("totalCost", totalCost).
		Float64("totalMinutes", totalMinutes).
		Float64("expectedReward", totalReward).
		Msg("Action sequence optimized")

	return types.ActionSequence{
		Sequence:       sequence,
		TotalCost:      totalCost,
		TotalTimeHours: totalMinutes / 60,
		ExpectedReward: totalReward,
		Efficiency:     safeRatio(totalReward, totalCost, 100),
	}
}
