/*

This file contains the output types of the farming engine: recommended
actions, strategy bundles, eligibility gaps, and the analysis reports
returned to the dashboard. All of these are ephemeral - built, serialized,
and discarded within a single request.

*/

package types

import "github.com/google/uuid"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Complexity string

const (
	ComplexityBeginner     Complexity = "beginner"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// FarmingAction is one unit of recommended work on a protocol.
// ROI is always derived from PotentialReward and EstimatedCost; it is never
// stored independently of those two.
type FarmingAction struct {
	Protocol            string     `json:"protocol"`
	Action              string     `json:"action"`
	Category            Category   `json:"category"`
	EstimatedCost       float64    `json:"estimated_cost"`   // gas + fees, USD
	PotentialReward     float64    `json:"potential_reward"` // heuristic, USD
	ROI                 float64    `json:"roi"`              // reward / cost * 100
	TimeRequiredMinutes int        `json:"time_required_minutes"`
	Difficulty          Difficulty `json:"difficulty"`
	Priority            Priority   `json:"priority"`
}

// FarmingStrategy is a named bundle of actions across target protocols,
// one of the five fixed archetypes.
type FarmingStrategy struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	TargetProtocols []string        `json:"target_protocols"`
	Actions         []FarmingAction `json:"actions"`
	TotalCost       float64         `json:"total_cost"`
	ExpectedReward  float64         `json:"expected_reward"`
	ExpectedROI     float64         `json:"expected_roi"`
	TimeframeDays   int             `json:"timeframe_days"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	Complexity      Complexity      `json:"complexity"`
}

// EligibilityGap describes how far a wallet is from qualifying on one protocol.
type EligibilityGap struct {
	Protocol                string          `json:"protocol"`
	CurrentProgress         float64         `json:"current_progress"` // 0-100
	MissingCriteria         []string        `json:"missing_criteria"`
	ActionsNeeded           []FarmingAction `json:"actions_needed"`
	EstimatedCostToComplete float64         `json:"estimated_cost_to_complete"`
	PotentialReward         float64         `json:"potential_reward"`
}

// CoverageReport summarizes which catalog protocols a wallet already farms
// and what it is leaving on the table.
type CoverageReport struct {
	Covered              []ProtocolActivity `json:"covered"`
	Missed               []ProtocolActivity `json:"missed"`
	DiversificationScore float64            `json:"diversification_score"`
	EstimatedTotalReward float64            `json:"estimated_total_reward"`
	Recommendations      []string           `json:"recommendations"`
}

// ActionSequence is the result of budget/time-constrained action selection.
type ActionSequence struct {
	Sequence       []FarmingAction `json:"sequence"`
	TotalCost      float64         `json:"total_cost"`
	TotalTimeHours float64         `json:"total_time_hours"`
	ExpectedReward float64         `json:"expected_reward"`
	Efficiency     float64         `json:"efficiency"` // reward / cost * 100
}

// AirdropPrediction is a heuristic forecast for a protocol with no token yet
// (or an established airdrop cadence).
type AirdropPrediction struct {
	Protocol          string   `json:"protocol"`
	Likelihood        float64  `json:"likelihood"` // 0-100, adjusted and clamped
	EstimatedTimeline string   `json:"estimated_timeline"`
	Reasoning         []string `json:"reasoning"`
	PreparationSteps  []string `json:"preparation_steps"`
}
