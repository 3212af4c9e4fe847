package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/pricing"
	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// Store is the persistence layer for price overrides and saved
// estimates
type Store struct {
	db *sql.DB
}

// Store satisfies the pricing refresh contract
var _ pricing.Store = (*Store)(nil)

// NewStore opens the database at path, creating the directory and
// schema as needed
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Storage("creating database directory", err)
		}
	}
	sqldb, err := Open(path)
	if err != nil {
		return nil, errors.Storage("opening price database", err)
	}
	if err := Migrate(sqldb); err != nil {
		sqldb.Close()
		return nil, errors.Storage("migrating price database", err)
	}
	return &Store{db: sqldb}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// ============================================================================
// PRICE OVERRIDES
// ============================================================================

// PriceMap returns the persisted price overrides for a system.
// Rows that no longer parse as decimals are skipped
func (s *Store) PriceMap(ctx context.Context, system catalog.System) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, price FROM price_overrides WHERE system = ?`, string(system))
	if err != nil {
		return nil, errors.Storage("loading price overrides", err)
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errors.Storage("reading price override", err)
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("reading price overrides", err)
	}
	return prices, nil
}

// SetPrice stores one price override. Negative prices store as zero
func (s *Store) SetPrice(ctx context.Context, system catalog.System, productID string, price decimal.Decimal) error {
	if productID == "" {
		return errors.Input("product id is required")
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO price_overrides (system, product_id, price, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (system, product_id)
		DO UPDATE SET price = excluded.price, updated_at = excluded.updated_at
	`, string(system), productID, price.String(), timestamp())
	if err != nil {
		return errors.Storage("storing price override", err)
	}
	return nil
}

// DeletePrice removes one price override
func (s *Store) DeletePrice(ctx context.Context, system catalog.System, productID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM price_overrides WHERE system = ? AND product_id = ?`,
		string(system), productID)
	if err != nil {
		return errors.Storage("removing price override", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("price override", productID)
	}
	return nil
}

// ClearPrices removes every override for a system and reports how
// many were removed
func (s *Store) ClearPrices(ctx context.Context, system catalog.System) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM price_overrides WHERE system = ?`, string(system))
	if err != nil {
		return 0, errors.Storage("clearing price overrides", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ============================================================================
// SAVED ESTIMATES
// ============================================================================

// EstimateRecord is one saved estimate: listing metadata plus the
// encoded session snapshot
type EstimateRecord struct {
	// ID is the estimate identifier
	ID string

	// Name is the job name
	Name string

	// System is the roofing system the estimate was built for
	System catalog.System

	// GrandTotal is the bid total at save time, as a decimal string
	GrandTotal string

	// SavedAt is when the record was written
	SavedAt time.Time

	// Data is the encoded session snapshot
	Data []byte
}

// EstimateSummary is the listing view of a saved estimate
type EstimateSummary struct {
	ID         string
	Name       string
	System     catalog.System
	GrandTotal string
	SavedAt    time.Time
}

// SaveEstimate stores an estimate record, replacing any record with
// the same id
func (s *Store) SaveEstimate(ctx context.Context, rec EstimateRecord) error {
	if rec.ID == "" {
		return errors.Input("estimate id is required")
	}
	if len(rec.Data) == 0 {
		return errors.Input("estimate record is empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_estimates (id, system, name, grand_total, saved_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET system = excluded.system, name = excluded.name,
		              grand_total = excluded.grand_total,
		              saved_at = excluded.saved_at, data = excluded.data
	`, rec.ID, string(rec.System), rec.Name, rec.GrandTotal,
		formatTime(rec.SavedAt), rec.Data)
	if err != nil {
		return errors.Storage("storing estimate", err)
	}
	return nil
}

// LoadEstimate returns one saved estimate by id
func (s *Store) LoadEstimate(ctx context.Context, id string) (EstimateRecord, error) {
	var (
		rec     EstimateRecord
		system  string
		savedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, system, name, grand_total, saved_at, data
		FROM saved_estimates WHERE id = ?
	`, id).Scan(&rec.ID, &system, &rec.Name, &rec.GrandTotal, &savedAt, &rec.Data)
	if err == sql.ErrNoRows {
		return EstimateRecord{}, errors.NotFound("estimate", id)
	}
	if err != nil {
		return EstimateRecord{}, errors.Storage("loading estimate", err)
	}
	rec.System = catalog.System(system)
	rec.SavedAt = parseTime(savedAt)
	return rec, nil
}

// ListEstimates returns saved estimate summaries, newest first. An
// empty system lists every system
func (s *Store) ListEstimates(ctx context.Context, system catalog.System) ([]EstimateSummary, error) {
	query := `
		SELECT id, system, name, grand_total, saved_at
		FROM saved_estimates
	`
	args := []interface{}{}
	if system != "" {
		query += ` WHERE system = ?`
		args = append(args, string(system))
	}
	query += ` ORDER BY saved_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Storage("listing estimates", err)
	}
	defer rows.Close()

	var out []EstimateSummary
	for rows.Next() {
		var (
			sum     EstimateSummary
			sys     string
			savedAt string
		)
		if err := rows.Scan(&sum.ID, &sys, &sum.Name, &sum.GrandTotal, &savedAt); err != nil {
			return nil, errors.Storage("reading estimate row", err)
		}
		sum.System = catalog.System(sys)
		sum.SavedAt = parseTime(savedAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("listing estimates", err)
	}
	return out, nil
}

// DeleteEstimate removes one saved estimate
func (s *Store) DeleteEstimate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_estimates WHERE id = ?`, id)
	if err != nil {
		return errors.Storage("removing estimate", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("estimate", id)
	}
	return nil
}

// Times are stored as RFC 3339 text so records read back identically
// on any driver
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func timestamp() string {
	return formatTime(time.Now())
}
