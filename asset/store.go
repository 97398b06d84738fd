/*
store.go - Persistence interface for assets and ledger entries

PURPOSE:
  Defines the boundary between the engine and the database. The engine is
  specified against this transactional, key-addressable store - not against
  a SQL dialect. Implementations exist for SQLite and in-memory.

ATOMICITY CONTRACT:
  PostDepreciation, RecordDisposal, and RecordRevaluation each execute ONE
  atomic transaction: the ledger entry insert and the asset summary update
  either both land or neither does. Partial application is never observable.

OPTIMISTIC CONCURRENCY:
  Every summary update names the asset version the caller read
  (AssetUpdate.ExpectedVersion). A store rejects stale writes with
  ErrConcurrentModification, serializing concurrent operations on the same
  asset without any global lock.

APPEND-ONLY LEDGER:
  There is no update or delete for depreciation entries, disposals, or
  revaluations. Corrections are offsetting entries. Assets themselves are
  never deleted - disposal is a status transition.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - asset/store/memory.go: In-memory for testing/dev

SEE ALSO:
  - engine.go, scheduler.go: Callers
  - audit.go: Audit sink, deliberately outside this interface
*/
package asset

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ASSET UPDATE - Conditional summary write
// =============================================================================

// AssetUpdate carries the new summary fields for an asset together with the
// version the caller read. Stores must apply it only if the stored version
// still matches, and bump the version on success.
type AssetUpdate struct {
	AssetID         AssetID
	ExpectedVersion int64

	CurrentValue            decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	Status                  AssetStatus
	LastDepreciationDate    *time.Time
	DisposalDate            *time.Time
	DisposalReason          string
	UpdatedAt               time.Time
}

// UpdateFor seeds an AssetUpdate from the asset's current state; callers
// then override the fields their operation changes.
func UpdateFor(a FixedAsset, now time.Time) AssetUpdate {
	return AssetUpdate{
		AssetID:                 a.ID,
		ExpectedVersion:         a.Version,
		CurrentValue:            a.CurrentValue,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
		Status:                  a.Status,
		LastDepreciationDate:    a.LastDepreciationDate,
		DisposalDate:            a.DisposalDate,
		DisposalReason:          a.DisposalReason,
		UpdatedAt:               now,
	}
}

// =============================================================================
// STORE - Transactional persistence for assets and their ledgers
// =============================================================================

type Store interface {
	// InsertAsset persists a newly created asset. Fails with
	// ErrDuplicateAssetTag if the tag is already registered.
	InsertAsset(ctx context.Context, a FixedAsset) error

	// GetAsset returns an asset by ID, or ErrAssetNotFound.
	GetAsset(ctx context.Context, id AssetID) (FixedAsset, error)

	// ListAssets returns all assets, any status.
	ListAssets(ctx context.Context) ([]FixedAsset, error)

	// ListActiveAssets returns assets eligible for depreciation posting.
	// Disposed assets are permanently excluded.
	ListActiveAssets(ctx context.Context) ([]FixedAsset, error)

	// HasDepreciationEntry reports whether an entry exists for
	// (assetID, period) - the idempotency check for posting runs.
	HasDepreciationEntry(ctx context.Context, id AssetID, period Period) (bool, error)

	// PostDepreciation atomically inserts the entry and applies the summary
	// update. Fails with ErrDuplicatePeriod if (assetID, period) exists and
	// ErrConcurrentModification on a stale version.
	PostDepreciation(ctx context.Context, entry DepreciationEntry, update AssetUpdate) error

	// RecordDisposal atomically inserts the terminal entry and flips the
	// asset to disposed. Fails with ErrAlreadyDisposed if a disposal entry
	// already exists for the asset.
	RecordDisposal(ctx context.Context, entry DisposalEntry, update AssetUpdate) error

	// RecordRevaluation atomically inserts the revaluation and rebases the
	// asset's book value.
	RecordRevaluation(ctx context.Context, rev AssetRevaluation, update AssetUpdate) error

	// DepreciationEntries returns all entries for an asset in period order.
	DepreciationEntries(ctx context.Context, id AssetID) ([]DepreciationEntry, error)

	// Revaluations returns all revaluations for an asset in date order.
	Revaluations(ctx context.Context, id AssetID) ([]AssetRevaluation, error)

	// Disposal returns the asset's disposal entry, or nil if still active.
	Disposal(ctx context.Context, id AssetID) (*DisposalEntry, error)
}
