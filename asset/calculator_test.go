package asset_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/asset-engine/asset"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(s string) decimal.Decimal { return asset.MustParseDecimal(s) }

func jan1(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// straightLineAsset builds an asset mid-schedule for calculator tests.
func straightLineAsset(cost, salvage, current string, lifeMonths int) asset.FixedAsset {
	a := asset.FixedAsset{
		ID:               "a-1",
		AcquisitionDate:  jan1(2025),
		OriginalCost:     money(cost),
		SalvageValue:     money(salvage),
		CurrentValue:     money(current),
		UsefulLifeMonths: lifeMonths,
		Method:           asset.MethodStraightLine,
		Status:           asset.StatusActive,
	}
	a.AccumulatedDepreciation = a.OriginalCost.Sub(a.CurrentValue)
	return a
}

// =============================================================================
// STRAIGHT LINE
// =============================================================================

func TestStraightLine_EvenSchedule(t *testing.T) {
	a := straightLineAsset("12000", "0", "12000", 12)

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("1000")) {
		t.Errorf("expected 1000/month, got %v", result.Amount)
	}
	if !result.BookValueAfter.Equal(money("11000")) {
		t.Errorf("expected book value 11000, got %v", result.BookValueAfter)
	}
}

func TestStraightLine_FinalPeriodAbsorbsRoundingRemainder(t *testing.T) {
	// 10000/12 rounds to 833.33/month; after 11 postings 833.37 remains.
	// The final period must post all of it, not 833.33 plus a 13th posting.
	a := straightLineAsset("10000", "0", "833.37", 12)

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("833.37")) {
		t.Errorf("final period should absorb remainder, got %v", result.Amount)
	}
	if !result.BookValueAfter.IsZero() {
		t.Errorf("book value should land exactly on salvage, got %v", result.BookValueAfter)
	}
}

func TestStraightLine_MidSchedulePostsMonthlyAmount(t *testing.T) {
	a := straightLineAsset("10000", "0", "1666.70", 12) // two periods left

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("833.33")) {
		t.Errorf("expected monthly 833.33, got %v", result.Amount)
	}
}

func TestStraightLine_NeverBreachesSalvageFloor(t *testing.T) {
	// Only 10 remains above salvage; the monthly 41.67 must be capped.
	a := straightLineAsset("12000", "11500", "11510", 12)

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("10")) {
		t.Errorf("expected cap at 10, got %v", result.Amount)
	}
	if !result.BookValueAfter.Equal(money("11500")) {
		t.Errorf("book value must stop at salvage 11500, got %v", result.BookValueAfter)
	}
}

func TestStraightLine_RoundUpMonthlyRunsFullSchedule(t *testing.T) {
	// 100/6 rounds UP to 16.67/month, so the schedule overshoots by 0.02
	// across six periods. Mid-schedule periods must keep posting the plain
	// monthly amount - absorbing early would end the schedule a month short.
	a := straightLineAsset("100", "0", "33.32", 6) // two periods left

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("16.67")) {
		t.Errorf("period 5 of 6 should post the monthly 16.67, got %v", result.Amount)
	}

	// The sixth and final period has only 16.65 left; the cap truncates it.
	final := straightLineAsset("100", "0", "16.65", 6)
	result, err = asset.ComputePeriodDepreciation(final, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("16.65")) {
		t.Errorf("final period should truncate to 16.65, got %v", result.Amount)
	}
	if !result.BookValueAfter.IsZero() {
		t.Errorf("book value should land exactly on salvage, got %v", result.BookValueAfter)
	}
}

// =============================================================================
// DECLINING BALANCE
// =============================================================================

func TestDecliningBalance_DoubleDecliningRate(t *testing.T) {
	a := asset.FixedAsset{
		AcquisitionDate:  jan1(2025),
		OriginalCost:     money("10000"),
		SalvageValue:     money("0"),
		CurrentValue:     money("10000"),
		UsefulLifeMonths: 10, // rate 2/10 = 0.2
		Method:           asset.MethodDecliningBalance,
	}

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("2000")) {
		t.Errorf("expected 10000 * 0.2 = 2000, got %v", result.Amount)
	}
}

func TestDecliningBalance_RateOverride(t *testing.T) {
	a := asset.FixedAsset{
		AcquisitionDate:  jan1(2025),
		OriginalCost:     money("10000"),
		CurrentValue:     money("10000"),
		UsefulLifeMonths: 10,
		Method:           asset.MethodDecliningBalance,
		DecliningRate:    money("0.1"),
	}

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Amount.Equal(money("1000")) {
		t.Errorf("expected override rate 0.1 -> 1000, got %v", result.Amount)
	}
}

func TestDecliningBalance_CappedAtSalvageFloor(t *testing.T) {
	a := asset.FixedAsset{
		AcquisitionDate:  jan1(2025),
		OriginalCost:     money("10000"),
		SalvageValue:     money("900"),
		CurrentValue:     money("1000"),
		UsefulLifeMonths: 10,
		Method:           asset.MethodDecliningBalance,
	}

	result, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1000 * 0.2 = 200, but only 100 remains above salvage.
	if !result.Amount.Equal(money("100")) {
		t.Errorf("expected cap at 100, got %v", result.Amount)
	}
	if !result.BookValueAfter.Equal(money("900")) {
		t.Errorf("expected book value 900, got %v", result.BookValueAfter)
	}
}

// =============================================================================
// ERROR CASES
// =============================================================================

func TestCalculator_InvalidMethod(t *testing.T) {
	a := straightLineAsset("1000", "0", "1000", 12)
	a.Method = "sum_of_years"

	_, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if !errors.Is(err, asset.ErrInvalidMethod) {
		t.Errorf("expected ErrInvalidMethod, got %v", err)
	}
}

func TestCalculator_ScheduleExhausted(t *testing.T) {
	a := straightLineAsset("1000", "100", "100", 12) // at the salvage floor

	_, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if !errors.Is(err, asset.ErrScheduleExhausted) {
		t.Errorf("expected ErrScheduleExhausted, got %v", err)
	}
}

func TestCalculator_BeforeAcquisition_NothingToPost(t *testing.T) {
	a := straightLineAsset("1000", "0", "1000", 12)
	a.AcquisitionDate = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	_, err := asset.ComputePeriodDepreciation(a, jan1(2025))
	if !errors.Is(err, asset.ErrScheduleExhausted) {
		t.Errorf("expected ErrScheduleExhausted before acquisition, got %v", err)
	}
}

// Determinism: same inputs, same output, every time.
func TestCalculator_Deterministic(t *testing.T) {
	a := straightLineAsset("9999.99", "500", "7123.45", 36)

	first, err := asset.ComputePeriodDepreciation(a, jan1(2026))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := asset.ComputePeriodDepreciation(a, jan1(2026))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !again.Amount.Equal(first.Amount) || !again.BookValueAfter.Equal(first.BookValueAfter) {
			t.Fatalf("calculator not deterministic: %v vs %v", again, first)
		}
	}
}
