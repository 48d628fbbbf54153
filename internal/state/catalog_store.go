/*

This file contains persistence for the protocol catalog: the reference data
the engine analyzes. The catalog is written by an out-of-band ingestion
process and read periodically into an in-memory snapshot.

*/

package state

import (
	"fmt"

	"github.com/farmsight/engine/internal/types"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// LoadCatalog reads the full protocol catalog, including historical
// airdrops, ordered by protocol name so snapshots are deterministic.
func LoadCatalog() ([]types.ProtocolActivity, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := DB.Query(`
		SELECT name, chain, category, user_count, tvl_usd, airdrop_likelihood,
		       min_transactions, min_volume_usd, min_time_active_days, additional_criteria
		FROM protocols
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query protocols: %w", err)
	}
	defer rows.Close()

	catalog := make([]types.ProtocolActivity, 0)
	index := make(map[string]int)
	for rows.Next() {
		var p types.ProtocolActivity
		var category string
		var criteria pq.StringArray
		if err := rows.Scan(&p.Name, &p.Chain, &category, &p.UserCount, &p.TvlUSD,
			&p.AirdropLikelihood, &p.Requirements.MinTransactions, &p.Requirements.MinVolumeUSD,
			&p.Requirements.MinTimeActiveDays, &criteria); err != nil {
			return nil, fmt.Errorf("failed to scan protocol row: %w", err)
		}
		p.Category = types.Category(category)
		if !p.Category.Valid() {
			// The category set is closed; an unknown value would inflate
			// the diversification denominator's numerator downstream.
			log.Warn().Str("protocol", p.Name).Str("category", category).
				Msg("Skipping protocol with unknown category")
			continue
		}
		p.Requirements.AdditionalCriteria = criteria
		p.HistoricalAirdrops = []types.HistoricalAirdrop{}
		index[p.Name] = len(catalog)
		catalog = append(catalog, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("protocol row iteration failed: %w", err)
	}

	dropRows, err := DB.Query(`
		SELECT protocol_name, name, airdrop_date, avg_reward, criteria
		FROM historical_airdrops
		ORDER BY protocol_name, airdrop_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical airdrops: %w", err)
	}
	defer dropRows.Close()

	for dropRows.Next() {
		var protocolName string
		var drop types.HistoricalAirdrop
		var criteria pq.StringArray
		if err := dropRows.Scan(&protocolName, &drop.Name, &drop.Date, &drop.AvgReward, &criteria); err != nil {
			return nil, fmt.Errorf("failed to scan airdrop row: %w", err)
		}
		drop.Criteria = criteria
		if i, ok := index[protocolName]; ok {
			catalog[i].HistoricalAirdrops = append(catalog[i].HistoricalAirdrops, drop)
		}
	}
	if err := dropRows.Err(); err != nil {
		return nil, fmt.Errorf("airdrop row iteration failed: %w", err)
	}

	return catalog, nil
}

// UpsertProtocol inserts or replaces one catalog entry and its airdrop
// history in a single transaction.
func UpsertProtocol(protocol types.ProtocolActivity) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if protocol.Name == "" {
		return fmt.Errorf("protocol name cannot be empty")
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO protocols (name, chain, category, user_count, tvl_usd, airdrop_likelihood,
		                       min_transactions, min_volume_usd, min_time_active_days, additional_criteria, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET
			chain = EXCLUDED.chain,
			category = EXCLUDED.category,
			user_count = EXCLUDED.user_count,
			tvl_usd = EXCLUDED.tvl_usd,
			airdrop_likelihood = EXCLUDED.airdrop_likelihood,
			min_transactions = EXCLUDED.min_transactions,
			min_volume_usd = EXCLUDED.min_volume_usd,
			min_time_active_days = EXCLUDED.min_time_active_days,
			additional_criteria = EXCLUDED.additional_criteria,
			updated_at = CURRENT_TIMESTAMP`,
		protocol.Name, protocol.Chain, string(protocol.Category), protocol.UserCount,
		protocol.TvlUSD, protocol.AirdropLikelihood,
		protocol.Requirements.MinTransactions, protocol.Requirements.MinVolumeUSD,
		protocol.Requirements.MinTimeActiveDays, pq.Array(protocol.Requirements.AdditionalCriteria))
	if err != nil {
		return fmt.Errorf("failed to upsert protocol %s: %w", protocol.Name, err)
	}

	if _, err := tx.Exec(`DELETE FROM historical_airdrops WHERE protocol_name = $1`, protocol.Name); err != nil {
		return fmt.Errorf("failed to clear airdrop history for %s: %w", protocol.Name, err)
	}
	for _, drop := range protocol.HistoricalAirdrops {
		_, err = tx.Exec(`
			INSERT INTO historical_airdrops (protocol_name, name, airdrop_date, avg_reward, criteria)
			VALUES ($1, $2, $3, $4, $5)`,
			protocol.Name, drop.Name, drop.Date, drop.AvgReward, pq.Array(drop.Criteria))
		if err != nil {
			return fmt.Errorf("failed to insert airdrop history for %s: %w", protocol.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit protocol upsert: %w", err)
	}
	return nil
}
