/*
scheduler.go - Idempotent period posting across the asset registry

PURPOSE:
  Runs one depreciation posting pass for a target period over all active
  assets. Each asset is an independent sub-task: a bounded worker pool posts
  them concurrently, per-asset failures never abort the batch, and the whole
  pass can be re-run or resumed safely because (assetID, period) uniqueness
  makes every posting idempotent.

PER-ASSET FLOW:
  1. Skip if an entry already exists for (assetID, period)
  2. Skip if the asset was not yet in service during the period
  3. Compute via the calculator; ErrScheduleExhausted -> skip
  4. Atomically: insert entry + update summary (conditional on version)
  5. Emit one audit record

CONCURRENCY:
  Different assets post fully in parallel - no global lock. Writes to the
  same asset are serialized by the store's optimistic version check; a
  conflicting pass loses with ErrConcurrentModification and can retry.

CANCELLATION:
  Context cancellation stops dispatching new assets. Postings already
  committed remain valid; re-running the same period finishes the rest.

SEE ALSO:
  - calculator.go: The pure math this drives
  - api/scheduler.go: Background runner that triggers month-end passes
*/
package asset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultWorkers = 8

// PostingRunResult is the structured per-asset outcome of one pass. The
// batch never reports a single all-or-nothing result.
type PostingRunResult struct {
	Period  Period
	Posted  []AssetID
	Skipped []AssetID
	Failed  []AssetFailure
}

type AssetFailure struct {
	AssetID AssetID
	Err     error
}

type postingOutcome int

const (
	outcomePosted postingOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// RunPostingPeriod posts depreciation for every active asset that is due for
// the given period. Already-posted and schedule-exhausted assets are
// reported as skipped. On context cancellation the partial result is
// returned together with the context error; the run can be resumed by
// calling again with the same period.
func (e *Engine) RunPostingPeriod(ctx context.Context, period Period, postingDate time.Time) (*PostingRunResult, error) {
	assets, err := e.Store.ListActiveAssets(ctx)
	if err != nil {
		return nil, err
	}

	workers := e.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(assets) && len(assets) > 0 {
		workers = len(assets)
	}

	result := &PostingRunResult{Period: period}
	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan FixedAsset)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				outcome, err := e.postOne(ctx, a, period, postingDate)
				mu.Lock()
				switch outcome {
				case outcomePosted:
					result.Posted = append(result.Posted, a.ID)
				case outcomeSkipped:
					result.Skipped = append(result.Skipped, a.ID)
				case outcomeFailed:
					result.Failed = append(result.Failed, AssetFailure{AssetID: a.ID, Err: err})
				}
				mu.Unlock()
			}
		}()
	}

	var dispatchErr error
dispatch:
	for _, a := range assets {
		select {
		case jobs <- a:
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	return result, dispatchErr
}

// postOne handles a single asset within a posting pass.
func (e *Engine) postOne(ctx context.Context, a FixedAsset, period Period, postingDate time.Time) (postingOutcome, error) {
	// Idempotency: one entry per (assetID, period).
	exists, err := e.Store.HasDepreciationEntry(ctx, a.ID, period)
	if err != nil {
		return outcomeFailed, err
	}
	if exists {
		return outcomeSkipped, nil
	}

	// In-service check is judged against the period being posted, not the
	// (possibly much later) posting date.
	calc, err := ComputePeriodDepreciation(a, period.End())
	if err != nil {
		if errors.Is(err, ErrScheduleExhausted) {
			return outcomeSkipped, nil
		}
		return outcomeFailed, err
	}

	now := e.now()
	entry := DepreciationEntry{
		ID:              EntryID(uuid.New().String()),
		AssetID:         a.ID,
		Period:          period,
		Amount:          calc.Amount,
		BookValueBefore: calc.BookValueBefore,
		BookValueAfter:  calc.BookValueAfter,
		PostingDate:     postingDate,
		CreatedAt:       now,
	}

	update := UpdateFor(a, now)
	update.CurrentValue = calc.BookValueAfter
	update.AccumulatedDepreciation = a.AccumulatedDepreciation.Add(calc.Amount)
	update.LastDepreciationDate = &postingDate

	if err := e.Store.PostDepreciation(ctx, entry, update); err != nil {
		// A concurrent pass won the race for this (asset, period): the entry
		// exists, which is exactly the state we wanted.
		if errors.Is(err, ErrDuplicatePeriod) {
			return outcomeSkipped, nil
		}
		return outcomeFailed, err
	}

	emitAudit(ctx, e.Audit, AuditRecord{
		EntityType: AuditDepreciationEntry,
		EntityID:   string(entry.ID),
		Action:     AuditDepreciationPosted,
		ActorID:    "system",
		Timestamp:  now,
		Details: map[string]string{
			"asset_id":         string(a.ID),
			"period":           period.Key(),
			"amount":           calc.Amount.StringFixed(2),
			"book_value_after": calc.BookValueAfter.StringFixed(2),
		},
	})
	return outcomePosted, nil
}
