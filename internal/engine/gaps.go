/*

This file contains the eligibility gap analyzer: per-protocol completion
progress against structured requirements, the concrete criteria still
missing, and the actions that would close them.

*/

package engine

import (
	"fmt"
	"sort"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
)

var gapLogger = logger.GetForComponent("gap_analyzer")

// IdentifyEligibilityGaps compares a wallet's tracked activity against each
// catalog protocol's requirements. Protocols whose requirements are fully
// met produce no entry.
//
// Progress counts discrete criteria: each required transaction plus each
// additional criterion. Volume and time-active shortfalls are reported in
// MissingCriteria but are not part of the progress denominator. That
// asymmetry is inherited from the product's original scoring and is kept
// deliberately.
//
// Results are ordered by a composite of completion progress and
// reward-per-cost, so near-complete protocols with cheap remaining work
// surface first.
func IdentifyEligibilityGaps(userActivity map[string]types.UserProtocolActivity, catalog []types.ProtocolActivity, params types.EngineParameters) []types.EligibilityGap {
	gaps := make([]types.EligibilityGap, 0, len(catalog))

	for _, protocol := range catalog {
		activity, tracked := userActivity[protocol.Name]
		var gap types.EligibilityGap
		var emit bool
		if tracked {
			gap, emit = trackedProtocolGap(protocol, activity, params)
		} else {
			gap = untrackedProtocolGap(protocol, params)
			emit = true
		}
		if emit {
			gaps = append(gaps, gap)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gapRank(gaps[i], params) > gapRank(gaps[j], params)
	})

	gapLogger.Debug().
		Int("protocols", len(catalog)).
		Int("gaps", len(gaps)).
		Msg("Eligibility gaps identified")

	return gaps
}

// gapRank is the composite ordering score for a gap.
func gapRank(gap types.EligibilityGap, params types.EngineParameters) float64 {
	rewardPerCost := safeRatio(gap.PotentialReward, gap.EstimatedCostToComplete, 1)
	return params.GapProgressWeight*gap.CurrentProgress + params.GapRewardCostWeight*rewardPerCost
}

// untrackedProtocolGap builds the gap for a protocol the wallet has never
// touched: zero progress, every requirement missing.
func untrackedProtocolGap(protocol types.ProtocolActivity, params types.EngineParameters) types.EligibilityGap {
	req := protocol.Requirements
	minTransactions := req.MinTransactions
	if minTransactions < 0 {
		minTransactions = 0
	}

	missing := make([]string, 0, 3+len(req.AdditionalCriteria))
	missing = append(missing,
		fmt.Sprintf("Complete %d transactions", minTransactions),
		fmt.Sprintf("Reach $%.0f in volume", sanitize(req.MinVolumeUSD)),
		fmt.Sprintf("Stay active for %d days", req.MinTimeActiveDays),
	)
	missing = append(missing, req.AdditionalCriteria...)

	actions := GenerateActionsForProtocol(protocol, params)

	return types.EligibilityGap{
		Protocol:                protocol.Name,
		CurrentProgress:         0,
		MissingCriteria:         missing,
		ActionsNeeded:           actions,
		EstimatedCostToComplete: costOfFirstActions(actions, minTransactions),
		PotentialReward:         EstimatePotentialReward(protocol, params),
	}
}

// trackedProtocolGap compares observed activity against requirements.
// The second return value is false when nothing is missing.
func trackedProtocolGap(protocol types.ProtocolActivity, activity types.UserProtocolActivity, params types.EngineParameters) (types.EligibilityGap, bool) {
	req := protocol.Requirements
	minTransactions := req.MinTransactions
	if minTransactions < 0 {
		minTransactions = 0
	}

	// Discrete criteria: one per required transaction plus one per
	// additional criterion.
	denominator := minTransactions + len(req.AdditionalCriteria)
	met := 0
	missing := make([]string, 0)

	if activity.Transactions < minTransactions {
		missing = append(missing,
			fmt.Sprintf("%d more transactions needed", minTransactions-activity.Transactions))
		if activity.Transactions > 0 {
			met += activity.Transactions
		}
	} else {
		met += minTransactions
	}

	if sanitize(activity.VolumeUSD) < sanitize(req.MinVolumeUSD) {
		missing = append(missing,
			fmt.Sprintf("$%.0f more volume needed", sanitize(req.MinVolumeUSD)-sanitize(activity.VolumeUSD)))
	}

	if activity.DaysActive < req.MinTimeActiveDays {
		missing = append(missing,
			fmt.Sprintf("%d more days of activity needed", req.MinTimeActiveDays-activity.DaysActive))
	}

	for _, criterion := range req.AdditionalCriteria {
		if activity.HasCompleted(criterion) {
			met++
		} else {
			missing = append(missing, criterion)
		}
	}

	if len(missing) == 0 {
		return types.EligibilityGap{}, false
	}

	progress := 0.0
	if denominator > 0 {
		if met > denominator {
			met = denominator
		}
		progress = float64(met) / float64(denominator) * 100
	}

	actions := GenerateActionsForProtocol(protocol, params)
	remaining := minTransactions - activity.Transactions
	if remaining < 0 {
		remaining = 0
	}

	return types.EligibilityGap{
		Protocol:                protocol.Name,
		CurrentProgress:         progress,
		MissingCriteria:         missing,
		ActionsNeeded:           actions,
		EstimatedCostToComplete: costOfFirstActions(actions, remaining),
		PotentialReward:         EstimatePotentialReward(protocol, params),
	}, true
}

// costOfFirstActions sums the cost of the first n generated actions. n is
// clamped to [0, len(actions)].
func costOfFirstActions(actions []types.FarmingAction, n int) float64 {
	if n < 0 {
		n = 0
	}
	if n > len(actions) {
		n = len(actions)
	}
	total := 0.0
	for _, action := range actions[:n] {
		total += sanitize(action.EstimatedCost)
	}
	return total
}
