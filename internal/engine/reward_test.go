package engine

import (
	"math"
	"testing"
	"time"

	"github.com/farmsight/engine/internal/config"
	"github.com/farmsight/engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() types.EngineParameters {
	return config.DefaultEngineParameters
}

func protocolFixture(name string, category types.Category, chain string, tvl float64, likelihood float64, minTx int) types.ProtocolActivity {
	return types.ProtocolActivity{
		Name:              name,
		Chain:             chain,
		Category:          category,
		UserCount:         10_000,
		TvlUSD:            tvl,
		AirdropLikelihood: likelihood,
		Requirements: types.Requirements{
			MinTransactions:   minTx,
			MinVolumeUSD:      1000,
			MinTimeActiveDays: 30,
		},
	}
}

func TestEstimatePotentialReward_HistoricalMean(t *testing.T) {
	protocol := protocolFixture("uniswap", types.CategoryDex, "ethereum", 5e9, 50, 10)
	protocol.HistoricalAirdrops = []types.HistoricalAirdrop{
		{Name: "UNI", Date: time.Date(2020, 9, 16, 0, 0, 0, 0, time.UTC), AvgReward: 1000},
		{Name: "UNI-2", Date: time.Date(2021, 9, 16, 0, 0, 0, 0, time.UTC), AvgReward: 2000},
	}

	reward := EstimatePotentialReward(protocol, testParams())

	// mean(1000, 2000) * 50/100
	assert.InDelta(t, 750, reward, 1e-9)
}

func TestEstimatePotentialReward_TvlFallback(t *testing.T) {
	tests := []struct {
		name       string
		tvl        float64
		likelihood float64
		expected   float64
	}{
		{"cap applies", 1e9, 80, 800},     // min(1000, 1000) * 0.8
		{"below cap", 5e8, 80, 400},       // min(500, 1000) * 0.8
		{"small protocol", 2e6, 50, 1},    // min(2, 1000) * 0.5
		{"zero tvl", 0, 90, 0},
		{"zero likelihood", 1e9, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			protocol := protocolFixture("p", types.CategoryDex, "arbitrum", tt.tvl, tt.likelihood, 5)
			assert.InDelta(t, tt.expected, EstimatePotentialReward(protocol, testParams()), 1e-9)
		})
	}
}

func TestEstimatePotentialReward_MalformedInputReadsAsZero(t *testing.T) {
	params := testParams()

	protocol := protocolFixture("broken", types.CategoryDex, "ethereum", math.NaN(), math.Inf(1), 5)
	assert.Equal(t, 0.0, EstimatePotentialReward(protocol, params))

	protocol = protocolFixture("negative", types.CategoryDex, "ethereum", -500, -10, 5)
	assert.Equal(t, 0.0, EstimatePotentialReward(protocol, params))

	// A NaN historical reward contributes zero to the mean instead of
	// poisoning it.
	protocol = protocolFixture("history", types.CategoryDex, "ethereum", 1e9, 100, 5)
	protocol.HistoricalAirdrops = []types.HistoricalAirdrop{
		{Name: "good", AvgReward: 600},
		{Name: "bad", AvgReward: math.NaN()},
	}
	assert.InDelta(t, 300, EstimatePotentialReward(protocol, params), 1e-9)
}

func TestEstimatePotentialReward_MonotoneInTvl(t *testing.T) {
	params := testParams()
	previous := -1.0
	for _, tvl := range []float64{0, 1e5, 1e6, 1e7, 1e8, 5e8, 1e9, 1e10} {
		protocol := protocolFixture("p", types.CategoryDex, "base", tvl, 60, 5)
		reward := EstimatePotentialReward(protocol, params)
		require.GreaterOrEqual(t, reward, previous, "reward must not decrease as TVL grows (tvl=%g)", tvl)
		previous = reward
	}
}

func TestEstimatePotentialReward_MonotoneInLikelihood(t *testing.T) {
	params := testParams()
	previous := -1.0
	for likelihood := 0.0; likelihood <= 100; likelihood += 5 {
		protocol := protocolFixture("p", types.CategoryDex, "base", 3e8, likelihood, 5)
		reward := EstimatePotentialReward(protocol, params)
		require.GreaterOrEqual(t, reward, previous, "reward must not decrease as likelihood grows (likelihood=%g)", likelihood)
		previous = reward
	}
}

func TestEstimatePotentialReward_Deterministic(t *testing.T) {
	protocol := protocolFixture("p", types.CategoryLending, "optimism", 7.5e8, 63, 12)
	first := EstimatePotentialReward(protocol, testParams())
	second := EstimatePotentialReward(protocol, testParams())
	assert.Equal(t, first, second)
}

func TestRewardEstimatorCache(t *testing.T) {
	estimator, err := NewRewardEstimator(testParams())
	require.NoError(t, err)
	defer estimator.Close()

	protocol := protocolFixture("p", types.CategoryDex, "arbitrum", 1e9, 80, 5)

	direct := EstimatePotentialReward(protocol, testParams())
	assert.Equal(t, direct, estimator.Estimate(protocol, 1))
	estimator.Wait()

	// Cached read under the same version returns the same value.
	assert.Equal(t, direct, estimator.Estimate(protocol, 1))

	// A new catalog version is a distinct key, so a changed protocol is
	// re-estimated rather than served stale.
	protocol.AirdropLikelihood = 40
	assert.Equal(t, EstimatePotentialReward(protocol, testParams()), estimator.Estimate(protocol, 2))
}
