// Package store provides in-memory Store implementations for tests and dev mode.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/asset-engine/asset"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	assets       map[asset.AssetID]asset.FixedAsset
	tags         map[string]asset.AssetID
	categories   map[asset.CategoryID]asset.AssetCategory
	entries      map[asset.AssetID][]asset.DepreciationEntry
	periods      map[periodKey]bool
	disposals    map[asset.AssetID]asset.DisposalEntry
	revaluations map[asset.AssetID][]asset.AssetRevaluation
}

type periodKey struct {
	AssetID asset.AssetID
	Period  string
}

func NewMemory() *Memory {
	return &Memory{
		assets:       make(map[asset.AssetID]asset.FixedAsset),
		tags:         make(map[string]asset.AssetID),
		categories:   make(map[asset.CategoryID]asset.AssetCategory),
		entries:      make(map[asset.AssetID][]asset.DepreciationEntry),
		periods:      make(map[periodKey]bool),
		disposals:    make(map[asset.AssetID]asset.DisposalEntry),
		revaluations: make(map[asset.AssetID][]asset.AssetRevaluation),
	}
}

// =============================================================================
// ASSET SUMMARY
// =============================================================================

func (m *Memory) InsertAsset(_ context.Context, a asset.FixedAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[a.AssetTag]; ok {
		return asset.ErrDuplicateAssetTag
	}
	m.assets[a.ID] = a
	m.tags[a.AssetTag] = a.ID
	return nil
}

func (m *Memory) GetAsset(_ context.Context, id asset.AssetID) (asset.FixedAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assets[id]
	if !ok {
		return asset.FixedAsset{}, asset.ErrAssetNotFound
	}
	return a, nil
}

func (m *Memory) ListAssets(_ context.Context) ([]asset.FixedAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(false), nil
}

func (m *Memory) ListActiveAssets(_ context.Context) ([]asset.FixedAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(true), nil
}

func (m *Memory) listLocked(activeOnly bool) []asset.FixedAsset {
	var result []asset.FixedAsset
	for _, a := range m.assets {
		if activeOnly && a.Status != asset.StatusActive {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssetTag < result[j].AssetTag })
	return result
}

// applyUpdateLocked performs the conditional summary write. The caller must
// hold the write lock.
func (m *Memory) applyUpdateLocked(u asset.AssetUpdate) error {
	a, ok := m.assets[u.AssetID]
	if !ok {
		return asset.ErrAssetNotFound
	}
	if a.Version != u.ExpectedVersion {
		return &asset.VersionConflictError{AssetID: u.AssetID, ExpectedVersion: u.ExpectedVersion}
	}

	a.CurrentValue = u.CurrentValue
	a.AccumulatedDepreciation = u.AccumulatedDepreciation
	a.Status = u.Status
	a.LastDepreciationDate = u.LastDepreciationDate
	a.DisposalDate = u.DisposalDate
	a.DisposalReason = u.DisposalReason
	a.UpdatedAt = u.UpdatedAt
	a.Version++
	m.assets[u.AssetID] = a
	return nil
}

// =============================================================================
// LEDGER WRITES - Atomic entry insert + summary update
// =============================================================================

func (m *Memory) HasDepreciationEntry(_ context.Context, id asset.AssetID, period asset.Period) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.periods[periodKey{AssetID: id, Period: period.Key()}], nil
}

func (m *Memory) PostDepreciation(_ context.Context, entry asset.DepreciationEntry, update asset.AssetUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := periodKey{AssetID: entry.AssetID, Period: entry.Period.Key()}
	if m.periods[k] {
		return asset.ErrDuplicatePeriod
	}
	if err := m.applyUpdateLocked(update); err != nil {
		return err
	}
	m.entries[entry.AssetID] = append(m.entries[entry.AssetID], entry)
	m.periods[k] = true
	return nil
}

func (m *Memory) RecordDisposal(_ context.Context, entry asset.DisposalEntry, update asset.AssetUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.disposals[entry.AssetID]; ok {
		return asset.ErrAlreadyDisposed
	}
	if err := m.applyUpdateLocked(update); err != nil {
		return err
	}
	m.disposals[entry.AssetID] = entry
	return nil
}

func (m *Memory) RecordRevaluation(_ context.Context, rev asset.AssetRevaluation, update asset.AssetUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.applyUpdateLocked(update); err != nil {
		return err
	}
	m.revaluations[rev.AssetID] = append(m.revaluations[rev.AssetID], rev)
	return nil
}

// =============================================================================
// LEDGER READS
// =============================================================================

func (m *Memory) DepreciationEntries(_ context.Context, id asset.AssetID) ([]asset.DepreciationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]asset.DepreciationEntry, len(m.entries[id]))
	copy(result, m.entries[id])
	sort.Slice(result, func(i, j int) bool { return result[i].Period.Before(result[j].Period) })
	return result, nil
}

func (m *Memory) Revaluations(_ context.Context, id asset.AssetID) ([]asset.AssetRevaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]asset.AssetRevaluation, len(m.revaluations[id]))
	copy(result, m.revaluations[id])
	sort.Slice(result, func(i, j int) bool { return result[i].RevaluationDate.Before(result[j].RevaluationDate) })
	return result, nil
}

func (m *Memory) Disposal(_ context.Context, id asset.AssetID) (*asset.DisposalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.disposals[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// =============================================================================
// CATEGORY STORE
// =============================================================================

func (m *Memory) GetCategory(_ context.Context, id asset.CategoryID) (asset.AssetCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return asset.AssetCategory{}, asset.ErrCategoryNotFound
	}
	return c, nil
}

func (m *Memory) ListCategories(_ context.Context) ([]asset.AssetCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []asset.AssetCategory
	for _, c := range m.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) SaveCategory(_ context.Context, c asset.AssetCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

// =============================================================================
// AUDIT LOG - In-memory recorder (tests assert against Records)
// =============================================================================

type AuditLog struct {
	mu      sync.Mutex
	records []asset.AuditRecord
}

func NewAuditLog() *AuditLog { return &AuditLog{} }

func (l *AuditLog) Record(_ context.Context, rec asset.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

func (l *AuditLog) Records() []asset.AuditRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]asset.AuditRecord, len(l.records))
	copy(result, l.records)
	return result
}
