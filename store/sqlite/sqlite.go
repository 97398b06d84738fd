/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements asset.Store, asset.CategoryStore, and asset.AuditRecorder using
  SQLite. In production, the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  asset_categories:     Default depreciation parameters
  fixed_assets:         Mutable asset summaries with optimistic version column
  depreciation_entries: Immutable periodic ledger (append-only)
  disposal_entries:     Terminal ledger entries, one per asset
  asset_revaluations:   Book value rebases (append-only)
  activities:           Audit log of every mutating operation

INVARIANT ENFORCEMENT AT THE STORAGE LEVEL:
  - idx_unique_asset_period: UNIQUE(asset_id, period) rejects double posting
    even if a caller bypasses the scheduler's idempotent skip
  - disposal_entries.asset_id UNIQUE: an asset is disposed at most once
  - fixed_assets.version: every summary update is conditional on the version
    the caller read; a stale write affects zero rows and surfaces as
    ErrConcurrentModification

ATOMICITY:
  PostDepreciation / RecordDisposal / RecordRevaluation run the ledger insert
  and the summary update inside a single sql.Tx. Either both land or neither.

MONEY:
  Monetary columns are stored as TEXT holding the decimal's exact string
  form. Never REAL - binary floating point is forbidden for currency.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block, single writer at a time, better crash recovery.

SEE ALSO:
  - asset/store.go: Interface definitions and contracts
  - asset/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/asset-engine/asset"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Categories (default depreciation parameters)
	CREATE TABLE IF NOT EXISTS asset_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		life_min_months INTEGER NOT NULL DEFAULT 0,
		life_max_months INTEGER NOT NULL DEFAULT 0,
		default_method TEXT NOT NULL,
		default_salvage_percent TEXT NOT NULL DEFAULT '0',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	-- Asset summaries (mutable, versioned; never deleted)
	CREATE TABLE IF NOT EXISTS fixed_assets (
		id TEXT PRIMARY KEY,
		asset_tag TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category_id TEXT,
		acquisition_date TEXT NOT NULL,
		original_cost TEXT NOT NULL,
		useful_life_months INTEGER NOT NULL,
		method TEXT NOT NULL,
		declining_rate TEXT NOT NULL DEFAULT '0',
		salvage_value TEXT NOT NULL,
		current_value TEXT NOT NULL,
		accumulated_depreciation TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		last_depreciation_date TEXT,
		disposal_date TEXT,
		disposal_reason TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fixed_assets_status
		ON fixed_assets(status);
	CREATE INDEX IF NOT EXISTS idx_fixed_assets_category
		ON fixed_assets(category_id);

	-- Periodic depreciation ledger (append-only)
	CREATE TABLE IF NOT EXISTS depreciation_entries (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		period TEXT NOT NULL,
		amount TEXT NOT NULL,
		book_value_before TEXT NOT NULL,
		book_value_after TEXT NOT NULL,
		posting_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- CRITICAL: one entry per (asset, period). This is the double-posting
	-- guard; the scheduler's skip is an optimization, this is the contract.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_asset_period
		ON depreciation_entries(asset_id, period);
	CREATE INDEX IF NOT EXISTS idx_depreciation_entries_asset
		ON depreciation_entries(asset_id, period);

	-- Terminal disposal entries (at most one per asset)
	CREATE TABLE IF NOT EXISTS disposal_entries (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL UNIQUE,
		disposal_date TEXT NOT NULL,
		proceeds TEXT NOT NULL,
		costs TEXT NOT NULL,
		net_book_value TEXT NOT NULL,
		gain_loss TEXT NOT NULL,
		reason TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	-- Revaluations (append-only)
	CREATE TABLE IF NOT EXISTS asset_revaluations (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		revaluation_date TEXT NOT NULL,
		previous_value TEXT NOT NULL,
		new_value TEXT NOT NULL,
		type TEXT NOT NULL,
		reason TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_asset_revaluations_asset
		ON asset_revaluations(asset_id, revaluation_date);

	-- Activities (audit log, append-only)
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT,
		timestamp TEXT NOT NULL,
		details_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_activities_entity
		ON activities(entity_type, entity_id);
	CREATE INDEX IF NOT EXISTS idx_activities_timestamp
		ON activities(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ASSET SUMMARY (asset.Store interface)
// =============================================================================

// InsertAsset persists a newly created asset.
func (s *Store) InsertAsset(ctx context.Context, a asset.FixedAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO fixed_assets
		(id, asset_tag, name, category_id, acquisition_date, original_cost,
		 useful_life_months, method, declining_rate, salvage_value, current_value,
		 accumulated_depreciation, status, last_depreciation_date, disposal_date,
		 disposal_reason, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.AssetTag, a.Name, nullString(string(a.CategoryID)),
		a.AcquisitionDate.Format(time.RFC3339),
		a.OriginalCost.String(), a.UsefulLifeMonths, a.Method, a.DecliningRate.String(),
		a.SalvageValue.String(), a.CurrentValue.String(), a.AccumulatedDepreciation.String(),
		a.Status, nullTime(a.LastDepreciationDate), nullTime(a.DisposalDate),
		nullString(a.DisposalReason), a.Version,
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return asset.ErrDuplicateAssetTag
		}
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

// GetAsset returns an asset by ID.
func (s *Store) GetAsset(ctx context.Context, id asset.AssetID) (asset.FixedAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectAsset+" WHERE id = ?", id)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return asset.FixedAsset{}, asset.ErrAssetNotFound
	}
	return a, err
}

// ListAssets returns all assets regardless of status.
func (s *Store) ListAssets(ctx context.Context) ([]asset.FixedAsset, error) {
	return s.queryAssets(ctx, selectAsset+" ORDER BY asset_tag")
}

// ListActiveAssets returns assets eligible for depreciation posting.
func (s *Store) ListActiveAssets(ctx context.Context) ([]asset.FixedAsset, error) {
	return s.queryAssets(ctx, selectAsset+" WHERE status = 'active' ORDER BY asset_tag")
}

const selectAsset = `
	SELECT id, asset_tag, name, category_id, acquisition_date, original_cost,
	       useful_life_months, method, declining_rate, salvage_value, current_value,
	       accumulated_depreciation, status, last_depreciation_date, disposal_date,
	       disposal_reason, version, created_at, updated_at
	FROM fixed_assets`

func (s *Store) queryAssets(ctx context.Context, query string, args ...any) ([]asset.FixedAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []asset.FixedAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (asset.FixedAsset, error) {
	var (
		a                    asset.FixedAsset
		categoryID           sql.NullString
		acquisitionDate      string
		originalCost         string
		decliningRate        string
		salvageValue         string
		currentValue         string
		accumulated          string
		lastDepreciationDate sql.NullString
		disposalDate         sql.NullString
		disposalReason       sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(
		&a.ID, &a.AssetTag, &a.Name, &categoryID, &acquisitionDate, &originalCost,
		&a.UsefulLifeMonths, &a.Method, &decliningRate, &salvageValue, &currentValue,
		&accumulated, &a.Status, &lastDepreciationDate, &disposalDate,
		&disposalReason, &a.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return a, err
	}

	a.CategoryID = asset.CategoryID(categoryID.String)
	a.AcquisitionDate, _ = time.Parse(time.RFC3339, acquisitionDate)
	a.OriginalCost = asset.MustParseDecimal(originalCost)
	a.DecliningRate = asset.MustParseDecimal(decliningRate)
	a.SalvageValue = asset.MustParseDecimal(salvageValue)
	a.CurrentValue = asset.MustParseDecimal(currentValue)
	a.AccumulatedDepreciation = asset.MustParseDecimal(accumulated)
	a.LastDepreciationDate = parseNullTime(lastDepreciationDate)
	a.DisposalDate = parseNullTime(disposalDate)
	a.DisposalReason = disposalReason.String
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}

// applyUpdateTx performs the conditional summary write inside tx. A stale
// version affects zero rows and is reported as a version conflict.
func applyUpdateTx(ctx context.Context, tx *sql.Tx, u asset.AssetUpdate) error {
	query := `
		UPDATE fixed_assets SET
			current_value = ?,
			accumulated_depreciation = ?,
			status = ?,
			last_depreciation_date = ?,
			disposal_date = ?,
			disposal_reason = ?,
			updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`

	res, err := tx.ExecContext(ctx, query,
		u.CurrentValue.String(), u.AccumulatedDepreciation.String(), u.Status,
		nullTime(u.LastDepreciationDate), nullTime(u.DisposalDate),
		nullString(u.DisposalReason), u.UpdatedAt.Format(time.RFC3339),
		u.AssetID, u.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset summary: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM fixed_assets WHERE id = ?", u.AssetID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return asset.ErrAssetNotFound
		}
		return &asset.VersionConflictError{AssetID: u.AssetID, ExpectedVersion: u.ExpectedVersion}
	}
	return nil
}

// =============================================================================
// LEDGER WRITES - Atomic entry insert + summary update
// =============================================================================

// HasDepreciationEntry reports whether an entry exists for (assetID, period).
func (s *Store) HasDepreciationEntry(ctx context.Context, id asset.AssetID, period asset.Period) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM depreciation_entries WHERE asset_id = ? AND period = ?",
		id, period.Key(),
	).Scan(&count)
	return count > 0, err
}

// PostDepreciation atomically inserts the entry and applies the summary update.
func (s *Store) PostDepreciation(ctx context.Context, entry asset.DepreciationEntry, update asset.AssetUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO depreciation_entries
			(id, asset_id, period, amount, book_value_before, book_value_after, posting_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			entry.ID, entry.AssetID, entry.Period.Key(),
			entry.Amount.String(), entry.BookValueBefore.String(), entry.BookValueAfter.String(),
			entry.PostingDate.Format(time.RFC3339), entry.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return asset.ErrDuplicatePeriod
			}
			return fmt.Errorf("failed to insert depreciation entry: %w", err)
		}
		return applyUpdateTx(ctx, tx, update)
	})
}

// RecordDisposal atomically inserts the terminal entry and flips the asset
// to disposed.
func (s *Store) RecordDisposal(ctx context.Context, entry asset.DisposalEntry, update asset.AssetUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO disposal_entries
			(id, asset_id, disposal_date, proceeds, costs, net_book_value, gain_loss, reason, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			entry.ID, entry.AssetID, entry.DisposalDate.Format(time.RFC3339),
			entry.Proceeds.String(), entry.Costs.String(), entry.NetBookValue.String(),
			entry.GainLoss.String(), nullString(entry.Reason), nullString(entry.Notes),
			entry.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return asset.ErrAlreadyDisposed
			}
			return fmt.Errorf("failed to insert disposal entry: %w", err)
		}
		return applyUpdateTx(ctx, tx, update)
	})
}

// RecordRevaluation atomically inserts the revaluation and rebases the
// asset's book value.
func (s *Store) RecordRevaluation(ctx context.Context, rev asset.AssetRevaluation, update asset.AssetUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO asset_revaluations
			(id, asset_id, revaluation_date, previous_value, new_value, type, reason, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			rev.ID, rev.AssetID, rev.RevaluationDate.Format(time.RFC3339),
			rev.PreviousValue.String(), rev.NewValue.String(), rev.Type,
			nullString(rev.Reason), nullString(rev.Notes), rev.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert revaluation: %w", err)
		}
		return applyUpdateTx(ctx, tx, update)
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", asset.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	// A commit failure is the database's problem, not the caller's: map it
	// to the retryable sentinel the same way a failed begin is.
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", asset.ErrStoreUnavailable, err)
	}
	return nil
}

// =============================================================================
// LEDGER READS
// =============================================================================

// DepreciationEntries returns all entries for an asset in period order.
func (s *Store) DepreciationEntries(ctx context.Context, id asset.AssetID) ([]asset.DepreciationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, asset_id, period, amount, book_value_before, book_value_after, posting_date, created_at
		FROM depreciation_entries
		WHERE asset_id = ?
		ORDER BY period ASC
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query depreciation entries: %w", err)
	}
	defer rows.Close()

	var entries []asset.DepreciationEntry
	for rows.Next() {
		var (
			e                      asset.DepreciationEntry
			period                 string
			amount, before, after  string
			postingDate, createdAt string
		)
		if err := rows.Scan(&e.ID, &e.AssetID, &period, &amount, &before, &after, &postingDate, &createdAt); err != nil {
			return nil, err
		}
		e.Period, _ = asset.ParsePeriod(period)
		e.Amount = asset.MustParseDecimal(amount)
		e.BookValueBefore = asset.MustParseDecimal(before)
		e.BookValueAfter = asset.MustParseDecimal(after)
		e.PostingDate, _ = time.Parse(time.RFC3339, postingDate)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Revaluations returns all revaluations for an asset in date order.
func (s *Store) Revaluations(ctx context.Context, id asset.AssetID) ([]asset.AssetRevaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, asset_id, revaluation_date, previous_value, new_value, type, reason, notes, created_at
		FROM asset_revaluations
		WHERE asset_id = ?
		ORDER BY revaluation_date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query revaluations: %w", err)
	}
	defer rows.Close()

	var revs []asset.AssetRevaluation
	for rows.Next() {
		rev, err := scanRevaluation(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

func scanRevaluation(rows *sql.Rows) (asset.AssetRevaluation, error) {
	var (
		rev                     asset.AssetRevaluation
		revaluationDate         string
		previousValue, newValue string
		reason, notes           sql.NullString
		createdAt               string
	)
	err := rows.Scan(&rev.ID, &rev.AssetID, &revaluationDate, &previousValue, &newValue,
		&rev.Type, &reason, &notes, &createdAt)
	if err != nil {
		return rev, err
	}
	rev.RevaluationDate, _ = time.Parse(time.RFC3339, revaluationDate)
	rev.PreviousValue = asset.MustParseDecimal(previousValue)
	rev.NewValue = asset.MustParseDecimal(newValue)
	rev.Reason = reason.String
	rev.Notes = notes.String
	rev.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rev, nil
}

// Disposal returns the asset's disposal entry, or nil if still active.
func (s *Store) Disposal(ctx context.Context, id asset.AssetID) (*asset.DisposalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, asset_id, disposal_date, proceeds, costs, net_book_value, gain_loss, reason, notes, created_at
		FROM disposal_entries
		WHERE asset_id = ?
	`

	var (
		e                        asset.DisposalEntry
		disposalDate             string
		proceeds, costs, nbv, gl string
		reason, notes            sql.NullString
		createdAt                string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.AssetID, &disposalDate, &proceeds, &costs, &nbv, &gl, &reason, &notes, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query disposal entry: %w", err)
	}

	e.DisposalDate, _ = time.Parse(time.RFC3339, disposalDate)
	e.Proceeds = asset.MustParseDecimal(proceeds)
	e.Costs = asset.MustParseDecimal(costs)
	e.NetBookValue = asset.MustParseDecimal(nbv)
	e.GainLoss = asset.MustParseDecimal(gl)
	e.Reason = reason.String
	e.Notes = notes.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}

// =============================================================================
// CATEGORY STORE (asset.CategoryStore interface)
// =============================================================================

// SaveCategory inserts or updates a category definition.
func (s *Store) SaveCategory(ctx context.Context, c asset.AssetCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO asset_categories
		(id, name, life_min_months, life_max_months, default_method, default_salvage_percent, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			life_min_months = excluded.life_min_months,
			life_max_months = excluded.life_max_months,
			default_method = excluded.default_method,
			default_salvage_percent = excluded.default_salvage_percent,
			is_active = excluded.is_active
	`

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.DefaultUsefulLifeMinMonths, c.DefaultUsefulLifeMaxMonths,
		c.DefaultMethod, c.DefaultSalvagePercent.String(), c.IsActive,
		createdAt.Format(time.RFC3339),
	)
	return err
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id asset.CategoryID) (asset.AssetCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		c              asset.AssetCategory
		salvagePercent string
		createdAt      string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, life_min_months, life_max_months, default_method, default_salvage_percent, is_active, created_at FROM asset_categories WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.DefaultUsefulLifeMinMonths, &c.DefaultUsefulLifeMaxMonths,
		&c.DefaultMethod, &salvagePercent, &c.IsActive, &createdAt)

	if err == sql.ErrNoRows {
		return asset.AssetCategory{}, asset.ErrCategoryNotFound
	}
	if err != nil {
		return asset.AssetCategory{}, err
	}
	c.DefaultSalvagePercent = asset.MustParseDecimal(salvagePercent)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

// ListCategories returns all categories.
func (s *Store) ListCategories(ctx context.Context) ([]asset.AssetCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, life_min_months, life_max_months, default_method, default_salvage_percent, is_active, created_at FROM asset_categories ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []asset.AssetCategory
	for rows.Next() {
		var (
			c              asset.AssetCategory
			salvagePercent string
			createdAt      string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.DefaultUsefulLifeMinMonths, &c.DefaultUsefulLifeMaxMonths,
			&c.DefaultMethod, &salvagePercent, &c.IsActive, &createdAt); err != nil {
			return nil, err
		}
		c.DefaultSalvagePercent = asset.MustParseDecimal(salvagePercent)
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// =============================================================================
// AUDIT LOG (asset.AuditRecorder interface)
// =============================================================================

// Record appends one activity row. Append-only.
func (s *Store) Record(ctx context.Context, rec asset.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	detailsJSON, _ := json.Marshal(rec.Details)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activities (id, entity_type, entity_id, action, actor_id, timestamp, details_json) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.New().String(), rec.EntityType, rec.EntityID, rec.Action,
		nullString(rec.ActorID), rec.Timestamp.Format(time.RFC3339), string(detailsJSON),
	)
	return err
}

// Activity is a stored audit record as read back from the activities table.
type Activity struct {
	ID         string
	EntityType string
	EntityID   string
	Action     string
	ActorID    string
	Timestamp  time.Time
	Details    map[string]string
}

// Activities returns the audit trail for one entity, newest first.
func (s *Store) Activities(ctx context.Context, entityType, entityID string) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, entity_type, entity_id, action, actor_id, timestamp, details_json FROM activities WHERE entity_type = ? AND entity_id = ? ORDER BY timestamp DESC",
		entityType, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var (
			a           Activity
			actorID     sql.NullString
			timestamp   string
			detailsJSON sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Action, &actorID, &timestamp, &detailsJSON); err != nil {
			return nil, err
		}
		a.ActorID = actorID.String
		a.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
		if detailsJSON.Valid && detailsJSON.String != "" {
			json.Unmarshal([]byte(detailsJSON.String), &a.Details)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
