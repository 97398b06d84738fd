package asset_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/asset-engine/asset"
	"github.com/warp/asset-engine/asset/store"
)

// runMonths posts every month of 2025 from January through the given month.
func runMonths(t *testing.T, eng *asset.Engine, through time.Month) {
	t.Helper()
	for m := time.January; m <= through; m++ {
		period := asset.NewPeriod(2025, m)
		result, err := eng.RunPostingPeriod(context.Background(), period, period.Next().Start())
		require.NoError(t, err)
		require.Empty(t, result.Failed, "no asset should fail in period %s", period)
	}
}

func requireConservation(t *testing.T, a asset.FixedAsset) {
	t.Helper()
	sum := a.CurrentValue.Add(a.AccumulatedDepreciation)
	assert.True(t, asset.WithinOneCent(sum, a.OriginalCost),
		"currentValue %v + accumulated %v should equal cost %v",
		a.CurrentValue, a.AccumulatedDepreciation, a.OriginalCost)
}

// =============================================================================
// FULL SCHEDULE RUNS
// =============================================================================

func TestPostingRun_TwelveMonthStraightLine(t *testing.T) {
	// GIVEN: A $12,000 asset with a 12-month straight-line schedule
	// WHEN: Posting all twelve periods of the year
	// THEN: Exactly 12 entries of $1,000; book value lands on zero

	eng, mem, _ := newTestEngine()
	ctx := context.Background()
	a := createTestAsset(t, eng, "SL-12K", "12000", 12)

	runMonths(t, eng, time.December)

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 12)
	for _, e := range entries {
		assert.True(t, e.Amount.Equal(money("1000")), "period %s posted %v", e.Period, e.Amount)
	}

	after, err := mem.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentValue.IsZero(), "expected zero book value, got %v", after.CurrentValue)
	assert.True(t, after.AccumulatedDepreciation.Equal(money("12000")))
	requireConservation(t, after)
}

func TestPostingRun_RoundingResidueAbsorbedByFinalPeriod(t *testing.T) {
	// GIVEN: $10,000 over 12 months (monthly rounds to 833.33)
	// WHEN: Posting the full year
	// THEN: Eleven entries of 833.33, one of 833.37, total exactly 10,000

	eng, mem, _ := newTestEngine()
	ctx := context.Background()
	a := createTestAsset(t, eng, "SL-10K", "10000", 12)

	runMonths(t, eng, time.December)

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 12)

	total := money("0")
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	assert.True(t, total.Equal(money("10000")), "entries must sum to cost, got %v", total)
	assert.True(t, entries[11].Amount.Equal(money("833.37")),
		"final period absorbs the residue, got %v", entries[11].Amount)

	after, err := mem.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentValue.IsZero())
	requireConservation(t, after)
}

func TestPostingRun_RoundUpMonthlyUsesEveryScheduledPeriod(t *testing.T) {
	// GIVEN: $100 over 6 months (monthly rounds UP to 16.67)
	// WHEN: Posting six periods
	// THEN: Five entries of 16.67 and a truncated final 16.65 - never an
	//       early double-sized posting that ends the schedule a month short

	eng, mem, _ := newTestEngine()
	ctx := context.Background()
	a := createTestAsset(t, eng, "SL-100", "100", 6)

	runMonths(t, eng, time.June)

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 6, "the schedule must use all six periods")

	total := money("0")
	for i, e := range entries {
		if i < 5 {
			assert.True(t, e.Amount.Equal(money("16.67")), "period %s posted %v", e.Period, e.Amount)
		}
		total = total.Add(e.Amount)
	}
	assert.True(t, entries[5].Amount.Equal(money("16.65")),
		"final period truncates to the remainder, got %v", entries[5].Amount)
	assert.True(t, total.Equal(money("100")), "entries must sum to cost, got %v", total)

	after, err := mem.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentValue.IsZero())
	requireConservation(t, after)
}

func TestPostingRun_ExhaustedScheduleReportedAsSkipped(t *testing.T) {
	eng, mem, _ := newTestEngine()
	ctx := context.Background()
	a := createTestAsset(t, eng, "SL-DONE", "1200", 12)

	runMonths(t, eng, time.December) // fully depreciated

	result, err := eng.RunPostingPeriod(ctx, asset.NewPeriod(2026, time.January),
		time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, result.Posted)
	assert.Contains(t, result.Skipped, a.ID)

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 12, "no thirteenth entry past the schedule")
}

// =============================================================================
// IDEMPOTENCY
// =============================================================================

func TestPostingRun_SamePeriodTwiceIsIdempotent(t *testing.T) {
	// GIVEN: January already posted
	// WHEN: Running January again
	// THEN: The asset is skipped; no second entry, no value change

	eng, mem, _ := newTestEngine()
	ctx := context.Background()
	a := createTestAsset(t, eng, "IDEM-001", "12000", 12)
	jan := asset.NewPeriod(2025, time.January)

	first, err := eng.RunPostingPeriod(ctx, jan, jan.Next().Start())
	require.NoError(t, err)
	require.Contains(t, first.Posted, a.ID)

	second, err := eng.RunPostingPeriod(ctx, jan, jan.Next().Start())
	require.NoError(t, err)
	assert.Empty(t, second.Posted)
	assert.Contains(t, second.Skipped, a.ID)

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	after, err := mem.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentValue.Equal(money("11000")))
}

// =============================================================================
// METHOD AND STATE INTERACTIONS
// =============================================================================

func TestPostingRun_DecliningBalanceStopsAtSalvageFloor(t *testing.T) {
	eng, mem, _ := newTestEngine()
	ctx := context.Background()

	a, err := eng.CreateAsset(ctx, asset.CreateAssetInput{
		AssetTag:         "DB-001",
		Name:             "Declining",
		AcquisitionDate:  jan1(2025),
		OriginalCost:     money("1000"),
		SalvageValue:     money("900"),
		UsefulLifeMonths: 10, // rate 0.2
		Method:           asset.MethodDecliningBalance,
	})
	require.NoError(t, err)

	// 1000 * 0.2 = 200 would breach the floor; only 100 is depreciable.
	runMonths(t, eng, time.January)

	after, err := mem.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentValue.Equal(money("900")))
	requireConservation(t, after)

	// The schedule is now exhausted; February reports skipped.
	feb := asset.NewPeriod(2025, time.February)
	result, err := eng.RunPostingPeriod(ctx, feb, feb.Next().Start())
	require.NoError(t, err)
	assert.Contains(t, result.Skipped, a.ID)
}

func TestPostingRun_RevaluationRebasesSubsequentPostings(t *testing.T) {
	// GIVEN: A declining-balance asset posted for January, then revalued back up
	// WHEN: Posting February
	// THEN: February depreciates off the revalued base, not the old one

	eng, mem, _ := newTestEngine()
	ctx := context.Background()

	a, err := eng.CreateAsset(ctx, asset.CreateAssetInput{
		AssetTag:         "DB-REV",
		Name:             "Revalued",
		AcquisitionDate:  jan1(2025),
		OriginalCost:     money("10000"),
		UsefulLifeMonths: 10, // rate 0.2
		Method:           asset.MethodDecliningBalance,
		SalvageValue:     money("0"),
	})
	require.NoError(t, err)

	runMonths(t, eng, time.January) // 10000 -> 8000

	_, err = eng.RevalueAsset(ctx, asset.RevalueAssetInput{
		AssetID:         a.ID,
		NewValue:        money("10000"),
		RevaluationDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	feb := asset.NewPeriod(2025, time.February)
	_, err = eng.RunPostingPeriod(ctx, feb, feb.Next().Start())
	require.NoError(t, err)

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Amount.Equal(money("2000")),
		"February should post 20%% of the revalued 10000, got %v", entries[1].Amount)

	after, err := mem.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, after.CurrentValue.Equal(money("8000")))
	assert.True(t, after.AccumulatedDepreciation.Equal(money("4000")))
}

func TestPostingRun_DisposedAssetsExcluded(t *testing.T) {
	eng, mem, _ := newTestEngine()
	ctx := context.Background()

	active := createTestAsset(t, eng, "ACT-001", "1200", 12)
	gone := createTestAsset(t, eng, "GONE-001", "1200", 12)

	_, err := eng.DisposeAsset(ctx, asset.DisposeAssetInput{
		AssetID:      gone.ID,
		DisposalDate: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		Proceeds:     money("800"),
	})
	require.NoError(t, err)

	jan := asset.NewPeriod(2025, time.January)
	result, err := eng.RunPostingPeriod(ctx, jan, jan.Next().Start())
	require.NoError(t, err)

	assert.Contains(t, result.Posted, active.ID)
	assert.NotContains(t, result.Posted, gone.ID)
	assert.NotContains(t, result.Skipped, gone.ID)

	entries, err := mem.DepreciationEntries(ctx, gone.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// FAILURE ISOLATION AND CANCELLATION
// =============================================================================

// failingStore wraps the memory store and fails posting for one asset.
type failingStore struct {
	*store.Memory
	failFor asset.AssetID
	err     error
}

func (s *failingStore) PostDepreciation(ctx context.Context, entry asset.DepreciationEntry, update asset.AssetUpdate) error {
	if entry.AssetID == s.failFor {
		return s.err
	}
	return s.Memory.PostDepreciation(ctx, entry, update)
}

func TestPostingRun_PerAssetFailureDoesNotAbortBatch(t *testing.T) {
	// GIVEN: Three assets, one of which fails at the store layer
	// WHEN: Running a posting pass
	// THEN: The other two post; the failure is reported, not propagated

	mem := store.NewMemory()
	eng := asset.NewEngine(mem, mem, store.NewAuditLog())
	ctx := context.Background()

	good1 := createTestAsset(t, eng, "OK-001", "1200", 12)
	bad := createTestAsset(t, eng, "BAD-001", "1200", 12)
	good2 := createTestAsset(t, eng, "OK-002", "1200", 12)

	storeErr := errors.New("disk full")
	eng.Store = &failingStore{Memory: mem, failFor: bad.ID, err: storeErr}

	jan := asset.NewPeriod(2025, time.January)
	result, err := eng.RunPostingPeriod(ctx, jan, jan.Next().Start())
	require.NoError(t, err, "per-asset failures must not abort the pass")

	assert.ElementsMatch(t, []asset.AssetID{good1.ID, good2.ID}, result.Posted)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, bad.ID, result.Failed[0].AssetID)
	assert.ErrorIs(t, result.Failed[0].Err, storeErr)
}

func TestPostingRun_CancelledRunResumesCleanly(t *testing.T) {
	// GIVEN: Many assets and an already-cancelled context
	// WHEN: Running a pass, then re-running with a live context
	// THEN: The first run stops early with ctx.Err(); the second finishes
	//       the period without double-posting anything

	eng, mem, _ := newTestEngine()
	for i := 0; i < 40; i++ {
		createTestAsset(t, eng, fmt.Sprintf("BULK-%03d", i), "1200", 12)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	jan := asset.NewPeriod(2025, time.January)
	partial, err := eng.RunPostingPeriod(cancelled, jan, jan.Next().Start())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, partial, "partial result must be returned on cancellation")
	assert.Less(t, len(partial.Posted), 40)

	result, err := eng.RunPostingPeriod(context.Background(), jan, jan.Next().Start())
	require.NoError(t, err)
	assert.Equal(t, 40, len(result.Posted)+len(result.Skipped))
	assert.Empty(t, result.Failed)

	assets, err := mem.ListAssets(context.Background())
	require.NoError(t, err)
	for _, a := range assets {
		entries, err := mem.DepreciationEntries(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "asset %s should have exactly one January entry", a.AssetTag)
	}
}
