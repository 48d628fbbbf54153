/*

This file contains the catalog-side types: protocols, their airdrop history,
eligibility requirements, and per-wallet observed activity.

*/

package types

import "time"

// Category classifies a protocol. The set is closed on purpose: the
// diversification score divides by the number of known categories, so the
// denominator must not drift with whatever happens to be in the catalog.
type Category string

const (
	CategoryDex     Category = "dex"
	CategoryLending Category = "lending"
	CategoryBridge  Category = "bridge"
	CategoryNFT     Category = "nft"
	CategorySocial  Category = "social"
	CategoryGaming  Category = "gaming"
	CategoryDefi    Category = "defi"
)

// AllCategories enumerates every known category in a fixed order.
var AllCategories = []Category{
	CategoryDex,
	CategoryLending,
	CategoryBridge,
	CategoryNFT,
	CategorySocial,
	CategoryGaming,
	CategoryDefi,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// HistoricalAirdrop is one past distribution by a protocol.
type HistoricalAirdrop struct {
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	AvgReward float64   `json:"avg_reward"` // mean reward per qualifying wallet, USD
	Criteria  []string  `json:"criteria"`
}

// Requirements are the eligibility thresholds a wallet must meet for a
// protocol's (expected) airdrop.
type Requirements struct {
	MinTransactions    int      `json:"min_transactions"`
	MinVolumeUSD       float64  `json:"min_volume_usd"`
	MinTimeActiveDays  int      `json:"min_time_active_days"`
	AdditionalCriteria []string `json:"additional_criteria"`
}

// ProtocolActivity is one catalog entry. It is immutable reference data:
// the engine never mutates it, and callers must not mutate a catalog
// snapshot while a computation is in flight.
type ProtocolActivity struct {
	Name               string              `json:"name"`
	Chain              string              `json:"chain"`
	Category           Category            `json:"category"`
	UserCount          int64               `json:"user_count"`
	TvlUSD             float64             `json:"tvl_usd"`
	AirdropLikelihood  float64             `json:"airdrop_likelihood"` // 0-100 heuristic
	HistoricalAirdrops []HistoricalAirdrop `json:"historical_airdrops"`
	Requirements       Requirements        `json:"requirements"`
}

// UserProtocolActivity is what one wallet has actually done on a protocol.
type UserProtocolActivity struct {
	Transactions      int      `json:"transactions"`
	VolumeUSD         float64  `json:"volume_usd"`
	DaysActive        int      `json:"days_active"`
	CompletedCriteria []string `json:"completed_criteria"`
}

// HasCompleted reports whether the wallet has satisfied a named criterion.
func (u UserProtocolActivity) HasCompleted(criterion string) bool {
	for _, c := range u.CompletedCriteria {
		if c == criterion {
			return true
		}
	}
	return false
}
