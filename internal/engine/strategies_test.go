package engine

import (
	"testing"

	"github.com/farmsight/engine/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strategyCatalog spans every archetype: two blue chips, three layer-2
// protocols, four quick-win candidates, three categories.
func strategyCatalog() []types.ProtocolActivity {
	uniswap := protocolFixture("uniswap", types.CategoryDex, "ethereum", 1e9, 85, 5)
	uniswap.UserCount = 1_000_000
	aave := protocolFixture("aave", types.CategoryLending, "ethereum", 8e8, 60, 4)
	aave.UserCount = 200_000
	return []types.ProtocolActivity{
		uniswap,
		aave,
		protocolFixture("camelot", types.CategoryDex, "arbitrum", 2e8, 70, 3),
		protocolFixture("hop", types.CategoryBridge, "optimism", 1e8, 55, 4),
		protocolFixture("grind", types.CategoryDex, "zksync", 5e7, 45, 2),
	}
}

func strategyByName(t *testing.T, strategies []types.FarmingStrategy, name string) types.FarmingStrategy {
	t.Helper()
	for _, strategy := range strategies {
		if strategy.Name == name {
			return strategy
		}
	}
	t.Fatalf("strategy %q not found", name)
	return types.FarmingStrategy{}
}

func TestGenerateStrategies_Archetypes(t *testing.T) {
	strategies := GenerateStrategies(strategyCatalog(), 1e6, 1000, testParams())
	require.Len(t, strategies, 5)

	t.Run("quick wins", func(t *testing.T) {
		s := strategyByName(t, strategies, "Quick Wins")
		// Few transactions and likelihood >= 50, ordered by likelihood.
		assert.Equal(t, []string{"uniswap", "camelot", "aave", "hop"}, s.TargetProtocols)
		assert.Equal(t, 14, s.TimeframeDays)
		assert.Equal(t, types.RiskLow, s.RiskLevel)
		assert.Equal(t, types.ComplexityBeginner, s.Complexity)
	})

	t.Run("high value", func(t *testing.T) {
		s := strategyByName(t, strategies, "High Value")
		// Ordered by estimated reward: 850, 480, 140, 55, 22.5.
		assert.Equal(t, []string{"uniswap", "aave", "camelot", "hop", "grind"}, s.TargetProtocols)
		assert.Equal(t, 60, s.TimeframeDays)
		assert.Equal(t, types.RiskMedium, s.RiskLevel)
	})

	t.Run("diversified", func(t *testing.T) {
		s := strategyByName(t, strategies, "Diversified")
		// Best likelihood per represented category.
		assert.ElementsMatch(t, []string{"uniswap", "aave", "hop"}, s.TargetProtocols)
		assert.Equal(t, 90, s.TimeframeDays)
	})

	t.Run("layer 2", func(t *testing.T) {
		s := strategyByName(t, strategies, "Layer 2 Focus")
		assert.Equal(t, []string{"camelot", "hop", "grind"}, s.TargetProtocols)
		assert.Equal(t, 45, s.TimeframeDays)
		assert.Equal(t, types.ComplexityBeginner, s.Complexity)
	})

	t.Run("blue chip", func(t *testing.T) {
		s := strategyByName(t, strategies, "Blue Chip")
		// TVL above 1e8 and more than 100k users, ordered by TVL.
		assert.Equal(t, []string{"uniswap", "aave"}, s.TargetProtocols)
		assert.Equal(t, types.RiskLow, s.RiskLevel)
	})
}

func TestGenerateStrategies_SortedByROIDescending(t *testing.T) {
	strategies := GenerateStrategies(strategyCatalog(), 1e6, 1000, testParams())

	require.NotEmpty(t, strategies)
	for i := 1; i < len(strategies); i++ {
		assert.GreaterOrEqual(t, strategies[i-1].ExpectedROI, strategies[i].ExpectedROI)
	}
	for _, strategy := range strategies {
		assert.NotEqual(t, uuid.Nil, strategy.ID)
		assert.Greater(t, strategy.TotalCost, 0.0)
		assert.Greater(t, strategy.ExpectedReward, 0.0)
	}
}

func TestGenerateStrategies_BudgetFilter(t *testing.T) {
	// With a $20 budget only the layer-2 strategy ($7 of rollup gas) fits.
	strategies := GenerateStrategies(strategyCatalog(), 20, 1000, testParams())

	require.Len(t, strategies, 1)
	assert.Equal(t, "Layer 2 Focus", strategies[0].Name)
	assert.LessOrEqual(t, strategies[0].TotalCost, 20.0)
}

func TestGenerateStrategies_TimeFilter(t *testing.T) {
	// 15 minutes available: only Blue Chip (one swap plus one lending
	// position, 15 minutes) squeezes in.
	strategies := GenerateStrategies(strategyCatalog(), 1e6, 0.25, testParams())

	require.Len(t, strategies, 1)
	assert.Equal(t, "Blue Chip", strategies[0].Name)
}

func TestGenerateStrategies_ZeroBudget(t *testing.T) {
	assert.Empty(t, GenerateStrategies(strategyCatalog(), 0, 1000, testParams()))
}

func TestGenerateStrategies_EmptyCatalog(t *testing.T) {
	assert.Empty(t, GenerateStrategies(nil, 1e6, 1000, testParams()))
}

func TestGenerateStrategies_Deterministic(t *testing.T) {
	// Bit-identical output on identical inputs, IDs included.
	first := GenerateStrategies(strategyCatalog(), 1e6, 1000, testParams())
	second := GenerateStrategies(strategyCatalog(), 1e6, 1000, testParams())
	assert.Equal(t, first, second)

	seen := make(map[uuid.UUID]struct{})
	for _, strategy := range first {
		_, dup := seen[strategy.ID]
		assert.False(t, dup, "strategy %q shares an ID with another strategy", strategy.Name)
		seen[strategy.ID] = struct{}{}
	}
}
