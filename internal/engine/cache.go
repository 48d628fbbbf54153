package engine

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/farmsight/engine/internal/types"
)

// RewardEstimator wraps EstimatePotentialReward with a shared read-mostly
// cache keyed by protocol name. Concurrent web requests recompute the same
// catalog entries constantly; the underlying estimate only changes when the
// catalog snapshot or the parameter set does, so cached values carry a
// snapshot/parameter version in their key and stale entries simply age out.
type RewardEstimator struct {
	cache  *ristretto.Cache
	params types.EngineParameters
}

// NewRewardEstimator builds an estimator with the given parameter set.
func NewRewardEstimator(params types.EngineParameters) (*RewardEstimator, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000, // ~10x expected catalog size
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reward cache: %w", err)
	}
	return &RewardEstimator{cache: cache, params: params}, nil
}

// Estimate returns the cached estimate for the protocol under the given
// catalog version, computing and storing it on a miss.
func (e *RewardEstimator) Estimate(protocol types.ProtocolActivity, catalogVersion uint64) float64 {
	key := fmt.Sprintf("%d/%s", catalogVersion, protocol.Name)
	if cached, ok := e.cache.Get(key); ok {
		if value, ok := cached.(float64); ok {
			return value
		}
	}

	value := EstimatePotentialReward(protocol, e.params)
	e.cache.Set(key, value, 1)
	return value
}

// Wait blocks until pending cache writes are applied. Used by tests.
func (e *RewardEstimator) Wait() {
	e.cache.Wait()
}

// Close releases the cache's resources.
func (e *RewardEstimator) Close() {
	e.cache.Close()
}
