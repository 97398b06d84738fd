/*
calculator.go - Pure depreciation math

PURPOSE:
  Computes one period's depreciation amount and resulting book value for an
  asset. No side effects: same inputs always produce the same output, which
  is what makes posting re-runs safe and the math testable without a store.

METHODS:
  straight_line:
    monthly = (originalCost - salvageValue) / usefulLifeMonths, rounded to
    cents. The final period posts whatever remains above salvage, absorbing
    the rounding residue of every earlier period, so the schedule lands
    exactly on salvage value in exactly usefulLifeMonths postings.

  declining_balance:
    amount = currentValue * rate, where rate defaults to 2/usefulLifeMonths
    (double-declining) unless the asset carries a rate override. Capped at
    the salvage floor - declining balance never terminates on its own.

SALVAGE FLOOR:
  Neither method ever posts an amount that would push CurrentValue below
  SalvageValue. Once the floor is reached the calculator reports
  ErrScheduleExhausted, which the scheduler records as a skip.

SEE ALSO:
  - scheduler.go: Drives this per asset per period
  - types.go: RemainingDepreciable / DepreciableBase
*/
package asset

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationResult is the outcome of one period's computation.
type DepreciationResult struct {
	Amount          decimal.Decimal
	BookValueBefore decimal.Decimal
	BookValueAfter  decimal.Decimal
}

var two = decimal.NewFromInt(2)

// ComputePeriodDepreciation computes the depreciation amount for one posting
// period given the asset's current state.
//
// Returns ErrInvalidMethod for an unrecognized method and
// ErrScheduleExhausted when there is nothing left to depreciate (book value
// already at the salvage floor, or asOf precedes acquisition). Callers other
// than the scheduler should treat ErrScheduleExhausted as "no-op", not as a
// failure.
func ComputePeriodDepreciation(a FixedAsset, asOf time.Time) (DepreciationResult, error) {
	if !a.Method.Valid() {
		return DepreciationResult{}, ErrInvalidMethod
	}
	if asOf.Before(a.AcquisitionDate) {
		// Asset not yet in service for this period.
		return DepreciationResult{}, ErrScheduleExhausted
	}

	remaining := a.RemainingDepreciable()
	if remaining.LessThanOrEqual(decimal.Zero) {
		return DepreciationResult{}, ErrScheduleExhausted
	}

	var amount decimal.Decimal
	switch a.Method {
	case MethodStraightLine:
		amount = straightLineAmount(a, remaining)
	case MethodDecliningBalance:
		amount = decliningBalanceAmount(a, remaining)
	}

	// Salvage floor cap, regardless of method.
	if amount.GreaterThan(remaining) {
		amount = remaining
	}

	return DepreciationResult{
		Amount:          amount,
		BookValueBefore: a.CurrentValue,
		BookValueAfter:  a.CurrentValue.Sub(amount),
	}, nil
}

func straightLineAmount(a FixedAsset, remaining decimal.Decimal) decimal.Decimal {
	life := decimal.NewFromInt(int64(a.UsefulLifeMonths))
	monthly := RoundCents(a.DepreciableBase().Div(life))
	if monthly.LessThanOrEqual(decimal.Zero) {
		return remaining
	}

	// Rounding the monthly amount leaves a cent-level residue over the whole
	// schedule: positive when the division rounded down, negative when it
	// rounded up. A positive residue is absorbed by the final period, which
	// posts monthly+residue so the schedule lands exactly on salvage after
	// usefulLifeMonths postings. A negative residue needs no special case:
	// the final period is capped at what remains above the floor.
	residue := a.DepreciableBase().Sub(monthly.Mul(life))
	if residue.IsPositive() && remaining.LessThanOrEqual(monthly.Add(residue)) {
		return remaining
	}
	return monthly
}

func decliningBalanceAmount(a FixedAsset, remaining decimal.Decimal) decimal.Decimal {
	rate := a.DecliningRate
	if rate.LessThanOrEqual(decimal.Zero) {
		rate = two.Div(decimal.NewFromInt(int64(a.UsefulLifeMonths)))
	}
	amount := RoundCents(a.CurrentValue.Mul(rate))
	if amount.GreaterThan(remaining) {
		return remaining
	}
	return amount
}
