/*
engine.go - Lifecycle commands: create, dispose, revalue, read ledger

PURPOSE:
  The Engine is the command surface consumed by the CRUD/HTTP layer. Each
  command validates against current asset state, computes its numbers with
  cent-exact decimal arithmetic, writes the ledger entry and summary update
  as one atomic store transaction, and then emits one audit record.

STATE GUARDS:
  - Dispose on a disposed asset  -> ErrAlreadyDisposed (entry untouched)
  - Revalue a disposed asset     -> ErrAlreadyDisposed
  - Revalue to the same value    -> ErrNoChange
  These guards are what make caller retries of disposal/revaluation safe.

TIMESTAMPS:
  The engine assigns every timestamp explicitly (injectable clock). Stores
  never backfill timestamps, so posting logic stays deterministic and
  testable without a live database.

SEE ALSO:
  - scheduler.go: RunPostingPeriod, the batch depreciation command
  - calculator.go: Pure depreciation math
*/
package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine executes lifecycle commands against a Store, applying category
// defaults on creation and emitting audit records after commit.
type Engine struct {
	Store      Store
	Categories CategoryStore
	Audit      AuditRecorder

	// Now is the injectable clock. Defaults to time.Now().UTC().
	Now func() time.Time

	// Workers bounds the posting scheduler's concurrency. Defaults to 8.
	Workers int
}

func NewEngine(store Store, categories CategoryStore, audit AuditRecorder) *Engine {
	return &Engine{
		Store:      store,
		Categories: categories,
		Audit:      audit,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// =============================================================================
// CREATE ASSET
// =============================================================================

// CreateAssetInput describes an acquisition. Method, UsefulLifeMonths, and
// SalvageValue may be left unset (empty / zero / negative respectively) to
// take the category defaults.
type CreateAssetInput struct {
	AssetTag         string
	Name             string
	CategoryID       CategoryID
	AcquisitionDate  time.Time
	OriginalCost     decimal.Decimal
	UsefulLifeMonths int
	Method           DepreciationMethod
	DecliningRate    decimal.Decimal
	// SalvageValue < 0 means "not supplied": the category's salvage percent
	// of original cost is used. Zero is a valid explicit salvage.
	SalvageValue decimal.Decimal
	ActorID      string
}

// CreateAsset registers an acquisition. The asset starts active with
// CurrentValue == OriginalCost and zero accumulated depreciation.
func (e *Engine) CreateAsset(ctx context.Context, in CreateAssetInput) (*FixedAsset, error) {
	if in.CategoryID != "" {
		cat, err := e.Categories.GetCategory(ctx, in.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolving category %s: %w", in.CategoryID, err)
		}
		in = ApplyCategoryDefaults(cat, in)
	}

	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := e.now()
	a := FixedAsset{
		ID:               AssetID(uuid.New().String()),
		AssetTag:         in.AssetTag,
		Name:             in.Name,
		CategoryID:       in.CategoryID,
		AcquisitionDate:  in.AcquisitionDate,
		OriginalCost:     RoundCents(in.OriginalCost),
		UsefulLifeMonths: in.UsefulLifeMonths,
		Method:           in.Method,
		DecliningRate:    in.DecliningRate,
		SalvageValue:     RoundCents(in.SalvageValue),
		Status:           StatusActive,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	a.CurrentValue = a.OriginalCost
	a.AccumulatedDepreciation = decimal.Zero

	if err := e.Store.InsertAsset(ctx, a); err != nil {
		return nil, err
	}

	emitAudit(ctx, e.Audit, AuditRecord{
		EntityType: AuditFixedAsset,
		EntityID:   string(a.ID),
		Action:     AuditAssetCreated,
		ActorID:    in.ActorID,
		Timestamp:  now,
		Details: map[string]string{
			"asset_tag":     a.AssetTag,
			"original_cost": a.OriginalCost.StringFixed(2),
			"method":        string(a.Method),
		},
	})
	return &a, nil
}

func validateCreate(in CreateAssetInput) error {
	if in.AssetTag == "" {
		return &ValidationError{Field: "assetTag", Reason: "required"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if in.AcquisitionDate.IsZero() {
		return &ValidationError{Field: "acquisitionDate", Reason: "required"}
	}
	if !in.OriginalCost.IsPositive() {
		return &ValidationError{Field: "originalCost", Reason: "must be positive"}
	}
	if in.UsefulLifeMonths <= 0 {
		return &ValidationError{Field: "usefulLife", Reason: "must be positive months"}
	}
	if !in.Method.Valid() {
		return &ValidationError{Field: "depreciationMethod", Reason: fmt.Sprintf("unknown method %q", in.Method)}
	}
	if in.SalvageValue.IsNegative() {
		return &ValidationError{Field: "salvageValue", Reason: "must be >= 0"}
	}
	if in.SalvageValue.GreaterThanOrEqual(in.OriginalCost) {
		return &ValidationError{Field: "salvageValue", Reason: "must be less than original cost"}
	}
	return nil
}

// =============================================================================
// DISPOSE ASSET
// =============================================================================

type DisposeAssetInput struct {
	AssetID      AssetID
	DisposalDate time.Time
	Proceeds     decimal.Decimal
	Costs        decimal.Decimal
	Reason       string
	Notes        string
	ActorID      string
}

// DisposeAsset closes the asset's depreciation schedule and records the
// terminal ledger entry. Net book value is the current value as of the call;
// no final partial-period depreciation is posted implicitly - run the
// posting scheduler through the disposal period first if that is wanted.
func (e *Engine) DisposeAsset(ctx context.Context, in DisposeAssetInput) (*DisposalEntry, error) {
	a, err := e.Store.GetAsset(ctx, in.AssetID)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusDisposed {
		return nil, &StateConflictError{AssetID: a.ID, Err: ErrAlreadyDisposed}
	}
	if in.DisposalDate.Before(a.AcquisitionDate) {
		return nil, &StateConflictError{AssetID: a.ID, Err: ErrInvalidDate}
	}
	if in.Proceeds.IsNegative() {
		return nil, &ValidationError{Field: "proceeds", Reason: "must be >= 0"}
	}
	if in.Costs.IsNegative() {
		return nil, &ValidationError{Field: "costs", Reason: "must be >= 0"}
	}

	now := e.now()
	netBookValue := a.CurrentValue
	// Positive is a gain, negative a loss. Both recorded as-is.
	gainLoss := RoundCents(in.Proceeds.Sub(in.Costs).Sub(netBookValue))

	entry := DisposalEntry{
		ID:           EntryID(uuid.New().String()),
		AssetID:      a.ID,
		DisposalDate: in.DisposalDate,
		Proceeds:     RoundCents(in.Proceeds),
		Costs:        RoundCents(in.Costs),
		NetBookValue: netBookValue,
		GainLoss:     gainLoss,
		Reason:       in.Reason,
		Notes:        in.Notes,
		CreatedAt:    now,
	}

	update := UpdateFor(a, now)
	update.Status = StatusDisposed
	update.DisposalDate = &in.DisposalDate
	update.DisposalReason = in.Reason

	if err := e.Store.RecordDisposal(ctx, entry, update); err != nil {
		return nil, err
	}

	emitAudit(ctx, e.Audit, AuditRecord{
		EntityType: AuditDisposalEntry,
		EntityID:   string(entry.ID),
		Action:     AuditAssetDisposed,
		ActorID:    in.ActorID,
		Timestamp:  now,
		Details: map[string]string{
			"asset_id":       string(a.ID),
			"net_book_value": netBookValue.StringFixed(2),
			"gain_loss":      gainLoss.StringFixed(2),
			"reason":         in.Reason,
		},
	})
	return &entry, nil
}

// =============================================================================
// REVALUE ASSET
// =============================================================================

type RevalueAssetInput struct {
	AssetID         AssetID
	NewValue        decimal.Decimal
	RevaluationDate time.Time
	Reason          string
	Notes           string
	ActorID         string
}

// RevalueAsset rebases the asset's book value outside the normal schedule.
// Accumulated depreciation and historical entries are untouched; subsequent
// depreciation uses the new value as its base (the remaining schedule
// re-bases rather than extending).
func (e *Engine) RevalueAsset(ctx context.Context, in RevalueAssetInput) (*AssetRevaluation, error) {
	a, err := e.Store.GetAsset(ctx, in.AssetID)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusDisposed {
		return nil, &StateConflictError{AssetID: a.ID, Err: ErrAlreadyDisposed}
	}
	if in.RevaluationDate.Before(a.AcquisitionDate) {
		return nil, &StateConflictError{AssetID: a.ID, Err: ErrInvalidDate}
	}
	if !in.NewValue.IsPositive() {
		return nil, &ValidationError{Field: "newValue", Reason: "must be positive"}
	}

	newValue := RoundCents(in.NewValue)
	if newValue.Equal(a.CurrentValue) {
		return nil, &StateConflictError{AssetID: a.ID, Err: ErrNoChange}
	}

	revType := RevaluationDownward
	if newValue.GreaterThan(a.CurrentValue) {
		revType = RevaluationUpward
	}

	now := e.now()
	rev := AssetRevaluation{
		ID:              EntryID(uuid.New().String()),
		AssetID:         a.ID,
		RevaluationDate: in.RevaluationDate,
		PreviousValue:   a.CurrentValue,
		NewValue:        newValue,
		Type:            revType,
		Reason:          in.Reason,
		Notes:           in.Notes,
		CreatedAt:       now,
	}

	update := UpdateFor(a, now)
	update.CurrentValue = newValue

	if err := e.Store.RecordRevaluation(ctx, rev, update); err != nil {
		return nil, err
	}

	emitAudit(ctx, e.Audit, AuditRecord{
		EntityType: AuditAssetRevaluation,
		EntityID:   string(rev.ID),
		Action:     AuditAssetRevalued,
		ActorID:    in.ActorID,
		Timestamp:  now,
		Details: map[string]string{
			"asset_id":       string(a.ID),
			"previous_value": rev.PreviousValue.StringFixed(2),
			"new_value":      rev.NewValue.StringFixed(2),
			"type":           string(rev.Type),
		},
	})
	return &rev, nil
}

// =============================================================================
// READ LEDGER
// =============================================================================

// GetAssetLedger returns the asset and its full ledger history, fully
// materialized by explicit store calls.
func (e *Engine) GetAssetLedger(ctx context.Context, id AssetID) (*AssetLedger, error) {
	a, err := e.Store.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := e.Store.DepreciationEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	revs, err := e.Store.Revaluations(ctx, id)
	if err != nil {
		return nil, err
	}
	disposal, err := e.Store.Disposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AssetLedger{
		Asset:        a,
		Entries:      entries,
		Revaluations: revs,
		Disposal:     disposal,
	}, nil
}
