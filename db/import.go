package db

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// ImportStats contains price import counters.
type ImportStats struct {
	Inserts int
	Updates int
}

// ImportPrices writes a batch of price overrides in one transaction,
// typically from a parsed distributor sheet. Existing overrides are
// updated in place; nothing is removed.
func (s *Store) ImportPrices(ctx context.Context, system catalog.System, prices map[string]decimal.Decimal) (ImportStats, error) {
	if len(prices) == 0 {
		return ImportStats{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, errors.Storage("beginning price import", err)
	}

	ids := make([]string, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stats := ImportStats{}
	now := timestamp()
	for _, id := range ids {
		price := prices[id]
		if price.IsNegative() {
			price = decimal.Zero
		}

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM price_overrides WHERE system = ? AND product_id = ? LIMIT 1)`,
			string(system), id).Scan(&exists)
		if err != nil {
			_ = tx.Rollback()
			return ImportStats{}, errors.Storage("checking price override existence", err)
		}

		if exists {
			_, err = tx.ExecContext(ctx,
				`UPDATE price_overrides SET price = ?, updated_at = ? WHERE system = ? AND product_id = ?`,
				price.String(), now, string(system), id)
			if err != nil {
				_ = tx.Rollback()
				return ImportStats{}, errors.Storage("updating price override", err)
			}
			stats.Updates++
			continue
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO price_overrides (system, product_id, price, updated_at) VALUES (?, ?, ?, ?)`,
			string(system), id, price.String(), now)
		if err != nil {
			_ = tx.Rollback()
			return ImportStats{}, errors.Storage("inserting price override", err)
		}
		stats.Inserts++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, errors.Storage("committing price import", err)
	}
	return stats, nil
}
