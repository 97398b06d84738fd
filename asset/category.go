/*
category.go - Asset category registry

PURPOSE:
  Categories carry the default depreciation parameters applied when an asset
  is created without overrides: method, useful-life range, and salvage
  percentage of original cost.

DESIGN:
  The registry is an injected read-only lookup passed explicitly to asset
  creation - never a hidden singleton. Category edits only affect assets
  created afterwards; deactivation does not cascade to existing assets.

SEE ALSO:
  - engine.go: CreateAsset applies defaults via ApplyCategoryDefaults
  - store.go: CategoryStore interface
*/
package asset

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryStore is the read/write surface for the category registry.
// The engine only reads; category CRUD belongs to the excluded admin layer.
type CategoryStore interface {
	// GetCategory returns a category by ID, or ErrCategoryNotFound.
	GetCategory(ctx context.Context, id CategoryID) (AssetCategory, error)

	// ListCategories returns all categories, active and inactive.
	ListCategories(ctx context.Context) ([]AssetCategory, error)

	// SaveCategory inserts or updates a category definition.
	SaveCategory(ctx context.Context, c AssetCategory) error
}

var hundred = decimal.NewFromInt(100)

// ApplyCategoryDefaults fills the depreciation parameters the create request
// left unset, using the asset's category:
//
//   - Method: category default when empty
//   - UsefulLifeMonths: clamped into [min, max]; defaults to max when zero
//   - SalvageValue: DefaultSalvagePercent of original cost when negative
//     (negative means "not supplied"; zero is a valid explicit salvage)
//
// The input is validated afterwards by CreateAsset, so this only fills, it
// never rejects.
func ApplyCategoryDefaults(c AssetCategory, in CreateAssetInput) CreateAssetInput {
	if in.Method == "" {
		in.Method = c.DefaultMethod
	}
	if in.UsefulLifeMonths == 0 {
		in.UsefulLifeMonths = c.DefaultUsefulLifeMaxMonths
	}
	if c.DefaultUsefulLifeMinMonths > 0 && in.UsefulLifeMonths < c.DefaultUsefulLifeMinMonths {
		in.UsefulLifeMonths = c.DefaultUsefulLifeMinMonths
	}
	if c.DefaultUsefulLifeMaxMonths > 0 && in.UsefulLifeMonths > c.DefaultUsefulLifeMaxMonths {
		in.UsefulLifeMonths = c.DefaultUsefulLifeMaxMonths
	}
	if in.SalvageValue.IsNegative() {
		in.SalvageValue = RoundCents(in.OriginalCost.Mul(c.DefaultSalvagePercent).Div(hundred))
	}
	return in
}
