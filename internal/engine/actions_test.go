package engine

import (
	"testing"

	"github.com/farmsight/engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateActionsForProtocol_DexOnEthereum(t *testing.T) {
	// tvl=1e9, likelihood=80, no history: estimate = min(1000,1000)*0.8 = 800.
	// minTransactions=5: per-action reward = 160. Ethereum base gas = 15.
	protocol := protocolFixture("uniswap", types.CategoryDex, "ethereum", 1e9, 80, 5)

	actions := GenerateActionsForProtocol(protocol, testParams())

	require.Len(t, actions, 1)
	action := actions[0]
	assert.Equal(t, "uniswap", action.Protocol)
	assert.Equal(t, "Make a swap", action.Action)
	assert.Equal(t, types.CategoryDex, action.Category)
	assert.InDelta(t, 15, action.EstimatedCost, 1e-9)
	assert.InDelta(t, 160, action.PotentialReward, 1e-9)
	assert.InDelta(t, 160.0/15.0*100, action.ROI, 1e-9)
	assert.Equal(t, 5, action.TimeRequiredMinutes)
	assert.Equal(t, types.DifficultyEasy, action.Difficulty)
	assert.Equal(t, types.PriorityHigh, action.Priority)
}

func TestGenerateActionsForProtocol_DexOnLayer2(t *testing.T) {
	protocol := protocolFixture("camelot", types.CategoryDex, "arbitrum", 1e9, 80, 5)

	actions := GenerateActionsForProtocol(protocol, testParams())

	require.Len(t, actions, 1)
	assert.InDelta(t, 2, actions[0].EstimatedCost, 1e-9)
	assert.InDelta(t, 160.0/2.0*100, actions[0].ROI, 1e-9)
}

func TestGenerateActionsForProtocol_CategoryTemplates(t *testing.T) {
	tests := []struct {
		category    types.Category
		label       string
		cost        float64 // on a layer-2 base of 2
		timeMinutes int
		difficulty  types.Difficulty
	}{
		{types.CategoryDex, "Make a swap", 2, 5, types.DifficultyEasy},
		{types.CategoryLending, "Deposit and borrow", 4, 10, types.DifficultyMedium},
		{types.CategoryBridge, "Bridge assets", 3, 8, types.DifficultyEasy},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			protocol := protocolFixture("p", tt.category, "optimism", 1e9, 80, 5)
			actions := GenerateActionsForProtocol(protocol, testParams())

			require.Len(t, actions, 1)
			assert.Equal(t, tt.label, actions[0].Action)
			assert.InDelta(t, tt.cost, actions[0].EstimatedCost, 1e-9)
			assert.Equal(t, tt.timeMinutes, actions[0].TimeRequiredMinutes)
			assert.Equal(t, tt.difficulty, actions[0].Difficulty)
		})
	}
}

func TestGenerateActionsForProtocol_UnhandledCategories(t *testing.T) {
	for _, category := range []types.Category{types.CategoryNFT, types.CategorySocial, types.CategoryGaming, types.CategoryDefi} {
		protocol := protocolFixture("p", category, "ethereum", 1e9, 80, 5)
		actions := GenerateActionsForProtocol(protocol, testParams())
		assert.NotNil(t, actions)
		assert.Empty(t, actions, "category %s has no template", category)
	}
}

func TestGenerateActionsForProtocol_GasBudgetGuard(t *testing.T) {
	// Tiny estimate: tvl=1e7, likelihood=50 -> 5 total, 1 per action.
	// Ethereum cost 15 is far beyond 30% of 1, so the action is dropped.
	protocol := protocolFixture("dust", types.CategoryDex, "ethereum", 1e7, 50, 5)

	actions := GenerateActionsForProtocol(protocol, testParams())
	assert.Empty(t, actions)

	// Disabling the guard keeps the action even at terrible ROI.
	params := testParams()
	params.MaxGasBudgetPercent = 0
	actions = GenerateActionsForProtocol(protocol, params)
	require.Len(t, actions, 1)
	assert.InDelta(t, 1, actions[0].PotentialReward, 1e-9)
}

func TestGenerateActionsForProtocol_ZeroMinTransactions(t *testing.T) {
	// MinTransactions of zero must not divide by zero; it reads as one.
	protocol := protocolFixture("fresh", types.CategoryDex, "base", 1e9, 80, 0)

	actions := GenerateActionsForProtocol(protocol, testParams())

	require.Len(t, actions, 1)
	assert.InDelta(t, 800, actions[0].PotentialReward, 1e-9)
}

func TestGenerateActionsForProtocol_Deterministic(t *testing.T) {
	protocol := protocolFixture("p", types.CategoryBridge, "zksync", 4e8, 70, 3)
	first := GenerateActionsForProtocol(protocol, testParams())
	second := GenerateActionsForProtocol(protocol, testParams())
	assert.Equal(t, first, second)
}
