/*
Package asset provides the fixed asset depreciation and lifecycle engine.

PURPOSE:
  This package contains the domain types and algorithms for managing fixed
  assets over their accounting lifetime: periodic depreciation postings,
  disposal with gain/loss computation, and out-of-schedule revaluations.
  All of it runs against an abstract transactional store - the engine has
  no knowledge of SQL, HTTP, or any particular database product.

KEY CONCEPTS IN THIS FILE (types.go):
  - FixedAsset: The mutable summary record (book value, accumulated depreciation)
  - DepreciationEntry: An immutable ledger entry, one per (asset, period)
  - DisposalEntry: The terminal ledger entry, at most one per asset
  - AssetRevaluation: An out-of-schedule rebase of book value
  - AssetCategory: Default depreciation parameters for newly created assets

DESIGN PRINCIPLES:
  1. Immutability: Ledger entries are never modified, only offset
  2. Precision: Uses decimal.Decimal with 2 fractional digits - never float64
  3. Conservation: currentValue + accumulatedDepreciation == originalCost
     for every asset that has not been revalued (within one cent)
  4. Auditability: Every mutating operation emits one audit record

USAGE:
  eng := asset.NewEngine(store, categories, audit)
  a, err := eng.CreateAsset(ctx, asset.CreateAssetInput{...})
  result, err := eng.RunPostingPeriod(ctx, asset.MustParsePeriod("2025-01"), postingDate)

SEE ALSO:
  - calculator.go: Pure depreciation math
  - scheduler.go: Idempotent period posting across the registry
  - engine.go: Create/dispose/revalue commands
  - store.go: Persistence interface
*/
package asset

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point currency helpers
// =============================================================================

// All monetary fields carry 2 fractional digits. RoundCents is applied at
// every computation boundary so stored values are always exact cents.

func RoundCents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// WithinOneCent reports whether two amounts differ by at most $0.01.
// Used by invariant checks, never by posting logic.
func WithinOneCent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(decimal.New(1, -2))
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AssetID string
type CategoryID string
type EntryID string

// =============================================================================
// ENUMS
// =============================================================================

type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "straight_line"
	MethodDecliningBalance DepreciationMethod = "declining_balance"
)

func (m DepreciationMethod) Valid() bool {
	return m == MethodStraightLine || m == MethodDecliningBalance
}

type AssetStatus string

const (
	StatusActive   AssetStatus = "active"
	StatusDisposed AssetStatus = "disposed"
)

type RevaluationType string

const (
	RevaluationUpward   RevaluationType = "upward"
	RevaluationDownward RevaluationType = "downward"
)

// =============================================================================
// ASSET CATEGORY - Default depreciation parameters
// =============================================================================

// AssetCategory holds the defaults applied when an asset is created without
// explicit overrides. Deactivating a category never cascades to existing
// assets; their method choice is frozen at creation time.
type AssetCategory struct {
	ID                         CategoryID
	Name                       string
	DefaultUsefulLifeMinMonths int
	DefaultUsefulLifeMaxMonths int
	DefaultMethod              DepreciationMethod
	DefaultSalvagePercent      decimal.Decimal // 0-100
	IsActive                   bool
	CreatedAt                  time.Time
}

// =============================================================================
// FIXED ASSET - Mutable summary record
// =============================================================================

// FixedAsset is the per-asset summary. It is created on acquisition and
// mutated only by the posting scheduler, the disposal processor, and the
// revaluation processor. Assets are never deleted; disposal is a status
// transition.
//
// INVARIANTS (for assets with no revaluations):
//   - CurrentValue + AccumulatedDepreciation == OriginalCost (within one cent)
//   - AccumulatedDepreciation <= OriginalCost - SalvageValue
//
// A revaluation intentionally rebases CurrentValue without touching
// AccumulatedDepreciation, so the conservation equation only binds the
// posting path.
type FixedAsset struct {
	ID               AssetID
	AssetTag         string // unique across the registry
	Name             string
	CategoryID       CategoryID
	AcquisitionDate  time.Time
	OriginalCost     decimal.Decimal // > 0
	UsefulLifeMonths int             // > 0
	Method           DepreciationMethod
	// DecliningRate overrides the default double-declining rate (2/usefulLife)
	// when positive. Ignored for straight-line assets.
	DecliningRate decimal.Decimal
	SalvageValue  decimal.Decimal // >= 0, < OriginalCost

	CurrentValue            decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	Status                  AssetStatus
	LastDepreciationDate    *time.Time

	// Disposal fields, nil/empty until the asset is disposed.
	DisposalDate   *time.Time
	DisposalReason string

	// Version is the optimistic concurrency token. Every summary update must
	// name the version it read; stores reject stale writes.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepreciableBase is the total amount eligible for depreciation over the
// asset's life: OriginalCost - SalvageValue.
func (a FixedAsset) DepreciableBase() decimal.Decimal {
	return a.OriginalCost.Sub(a.SalvageValue)
}

// RemainingDepreciable is how much book value can still be depreciated
// before hitting the salvage floor. Computed from CurrentValue rather than
// AccumulatedDepreciation so that revalued assets depreciate from their
// rebased carrying value.
func (a FixedAsset) RemainingDepreciable() decimal.Decimal {
	return a.CurrentValue.Sub(a.SalvageValue)
}

// =============================================================================
// DEPRECIATION ENTRY - Immutable periodic ledger entry
// =============================================================================

// DepreciationEntry records one period's depreciation for one asset.
//
// INVARIANTS:
//   - Append-only: entries are never edited; corrections are offsetting entries
//   - One entry per (AssetID, Period) - the double-posting guard
type DepreciationEntry struct {
	ID              EntryID
	AssetID         AssetID
	Period          Period
	Amount          decimal.Decimal
	BookValueBefore decimal.Decimal
	BookValueAfter  decimal.Decimal
	PostingDate     time.Time
	CreatedAt       time.Time
}

// =============================================================================
// DISPOSAL ENTRY - Terminal ledger entry
// =============================================================================

// DisposalEntry is written exactly once per asset. GainLoss is recorded
// as-is: positive for gains, negative for losses, no clamping.
type DisposalEntry struct {
	ID           EntryID
	AssetID      AssetID
	DisposalDate time.Time
	Proceeds     decimal.Decimal
	Costs        decimal.Decimal
	NetBookValue decimal.Decimal // book value at disposal
	GainLoss     decimal.Decimal // Proceeds - Costs - NetBookValue
	Reason       string
	Notes        string
	CreatedAt    time.Time
}

// =============================================================================
// ASSET REVALUATION - Out-of-schedule book value rebase
// =============================================================================

// AssetRevaluation records a rebase of CurrentValue. Historical depreciation
// entries are untouched; only future postings see the new base.
type AssetRevaluation struct {
	ID              EntryID
	AssetID         AssetID
	RevaluationDate time.Time
	PreviousValue   decimal.Decimal
	NewValue        decimal.Decimal
	Type            RevaluationType
	Reason          string
	Notes           string
	CreatedAt       time.Time
}

// =============================================================================
// ASSET LEDGER - Fully materialized view of an asset's history
// =============================================================================

// AssetLedger is the read model returned by GetAssetLedger: the asset summary
// plus every ledger entry it owns. No lazy loading - everything is fetched
// up front by explicit repository calls.
type AssetLedger struct {
	Asset        FixedAsset
	Entries      []DepreciationEntry
	Revaluations []AssetRevaluation
	Disposal     *DisposalEntry
}
