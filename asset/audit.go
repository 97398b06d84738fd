package asset

import (
	"context"
	"log"
	"time"
)

// =============================================================================
// AUDIT - Every mutating operation emits one record
// =============================================================================

type AuditEntityType string

const (
	AuditFixedAsset        AuditEntityType = "fixed_asset"
	AuditDepreciationEntry AuditEntityType = "depreciation_entry"
	AuditDisposalEntry     AuditEntityType = "disposal_entry"
	AuditAssetRevaluation  AuditEntityType = "asset_revaluation"
)

type AuditAction string

const (
	AuditAssetCreated       AuditAction = "asset_created"
	AuditDepreciationPosted AuditAction = "depreciation_posted"
	AuditAssetDisposed      AuditAction = "asset_disposed"
	AuditAssetRevalued      AuditAction = "asset_revalued"
)

// AuditRecord describes one mutating operation for the activities log.
type AuditRecord struct {
	EntityType AuditEntityType
	EntityID   string
	Action     AuditAction
	ActorID    string
	Timestamp  time.Time
	Details    map[string]string
}

// AuditRecorder is the external audit sink (the activities collaborator).
// Emission is attempted after the state change commits; a recorder failure
// is logged but never turns a committed operation into a failure.
type AuditRecorder interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// NopRecorder discards audit records. Used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, AuditRecord) error { return nil }

// emitAudit records after commit and logs on failure.
func emitAudit(ctx context.Context, recorder AuditRecorder, rec AuditRecord) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, rec); err != nil {
		log.Printf("[Audit] failed to record %s %s for %s: %v", rec.EntityType, rec.Action, rec.EntityID, err)
	}
}
