/*

This file contains persistence for per-wallet observed activity. The
on-chain indexing layer delivers these counters; the engine only reads them.

*/

package state

import (
	"fmt"

	"github.com/farmsight/engine/internal/types"
	"github.com/lib/pq"
)

// LoadWalletActivity returns a wallet's tracked activity keyed by protocol
// name. A wallet with no rows yields an empty map, not an error.
func LoadWalletActivity(walletAddress string) (map[string]types.UserProtocolActivity, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := DB.Query(`
		SELECT protocol_name, transactions, volume_usd, days_active, completed_criteria
		FROM wallet_activity
		WHERE wallet_address = $1`, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet activity: %w", err)
	}
	defer rows.Close()

	activity := make(map[string]types.UserProtocolActivity)
	for rows.Next() {
		var protocolName string
		var entry types.UserProtocolActivity
		var criteria pq.StringArray
		if err := rows.Scan(&protocolName, &entry.Transactions, &entry.VolumeUSD, &entry.DaysActive, &criteria); err != nil {
			return nil, fmt.Errorf("failed to scan wallet activity row: %w", err)
		}
		entry.CompletedCriteria = criteria
		activity[protocolName] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wallet activity iteration failed: %w", err)
	}

	return activity, nil
}

// UpsertWalletActivityBatch stores a wallet's per-protocol activity records
// in a single transaction. Either the whole batch lands or none of it does,
// so a failing row never leaves a partial write behind.
func UpsertWalletActivityBatch(walletAddress string, batch map[string]types.UserProtocolActivity) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if walletAddress == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for protocolName, activity := range batch {
		if protocolName == "" {
			return fmt.Errorf("protocol name cannot be empty")
		}
		_, err := tx.Exec(`
			INSERT INTO wallet_activity (wallet_address, protocol_name, transactions, volume_usd, days_active, completed_criteria, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
			ON CONFLICT (wallet_address, protocol_name) DO UPDATE SET
				transactions = EXCLUDED.transactions,
				volume_usd = EXCLUDED.volume_usd,
				days_active = EXCLUDED.days_active,
				completed_criteria = EXCLUDED.completed_criteria,
				updated_at = CURRENT_TIMESTAMP`,
			walletAddress, protocolName, activity.Transactions, activity.VolumeUSD,
			activity.DaysActive, pq.Array(activity.CompletedCriteria))
		if err != nil {
			return fmt.Errorf("failed to upsert wallet activity for %s/%s: %w", walletAddress, protocolName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wallet activity batch: %w", err)
	}
	return nil
}
