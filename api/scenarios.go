/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates categories, assets,
	and posted depreciation periods that demonstrate specific features.

AVAILABLE SCENARIOS:

	office-fleet:   Categories with defaults, a mix of laptops and a van
	mixed-methods:  Straight-line next to declining-balance, plus a revaluation
	full-lifecycle: A fully depreciated asset disposed at scrap value

HOW SCENARIOS WORK:
 1. Create categories with default depreciation parameters
 2. Register assets (some taking category defaults)
 3. Run posting passes for past periods
 4. Optionally revalue or dispose

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "office-fleet"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios assume an empty database: asset tags are deterministic, so
	loading one twice is rejected by the duplicate-tag guard. Only use in
	development/demo environments.

SEE ALSO:
  - handlers.go: The command handlers scenarios drive indirectly
  - asset/engine.go: CreateAsset / RunPostingPeriod / DisposeAsset
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/asset-engine/asset"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "office-fleet",
		Name:        "Office Fleet",
		Description: "IT equipment and vehicles with category defaults, three posted months",
	},
	{
		ID:          "mixed-methods",
		Name:        "Mixed Methods",
		Description: "Straight-line and declining-balance side by side, with a mid-life revaluation",
	},
	{
		ID:          "full-lifecycle",
		Name:        "Full Lifecycle",
		Description: "A fully depreciated asset sold for scrap: complete ledger with disposal",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario populates the database with one scenario's data.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "office-fleet":
		err = loadOfficeFleetScenario(ctx, h)
	case "mixed-methods":
		err = loadMixedMethodsScenario(ctx, h)
	case "full-lifecycle":
		err = loadFullLifecycleScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoadScenarioResponse{
		ScenarioID: req.ScenarioID,
		Message:    "Scenario loaded",
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadOfficeFleetScenario(ctx context.Context, h *Handler) error {
	categories := []asset.AssetCategory{
		{
			ID:                         "it-equipment",
			Name:                       "IT Equipment",
			DefaultUsefulLifeMinMonths: 12,
			DefaultUsefulLifeMaxMonths: 48,
			DefaultMethod:              asset.MethodStraightLine,
			DefaultSalvagePercent:      asset.MustParseDecimal("5"),
			IsActive:                   true,
		},
		{
			ID:                         "vehicles",
			Name:                       "Vehicles",
			DefaultUsefulLifeMinMonths: 36,
			DefaultUsefulLifeMaxMonths: 60,
			DefaultMethod:              asset.MethodDecliningBalance,
			DefaultSalvagePercent:      asset.MustParseDecimal("10"),
			IsActive:                   true,
		},
	}
	for _, c := range categories {
		if err := h.Categories.SaveCategory(ctx, c); err != nil {
			return err
		}
	}

	acquired := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	assets := []asset.CreateAssetInput{
		{
			AssetTag:         "LAPTOP-2025-001",
			Name:             "MacBook Pro 16 (Engineering)",
			CategoryID:       "it-equipment",
			AcquisitionDate:  acquired,
			OriginalCost:     asset.MustParseDecimal("3200"),
			UsefulLifeMonths: 36,
			SalvageValue:     decimal.NewFromInt(-1), // take the category default
			ActorID:          "scenario-loader",
		},
		{
			AssetTag:        "LAPTOP-2025-002",
			Name:            "ThinkPad X1 (Sales)",
			CategoryID:      "it-equipment",
			AcquisitionDate: acquired,
			OriginalCost:    asset.MustParseDecimal("1800"),
			SalvageValue:    decimal.NewFromInt(-1),
			ActorID:         "scenario-loader",
		},
		{
			AssetTag:        "VAN-2025-001",
			Name:            "Ford Transit (Deliveries)",
			CategoryID:      "vehicles",
			AcquisitionDate: acquired,
			OriginalCost:    asset.MustParseDecimal("32000"),
			SalvageValue:    decimal.NewFromInt(-1),
			ActorID:         "scenario-loader",
		},
	}
	for _, in := range assets {
		if _, err := h.Engine.CreateAsset(ctx, in); err != nil {
			return err
		}
	}

	return postMonths(ctx, h, 2025, time.January, time.March)
}

func loadMixedMethodsScenario(ctx context.Context, h *Handler) error {
	acquired := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, err := h.Engine.CreateAsset(ctx, asset.CreateAssetInput{
		AssetTag:         "PRESS-2025-001",
		Name:             "Printing Press",
		AcquisitionDate:  acquired,
		OriginalCost:     asset.MustParseDecimal("12000"),
		UsefulLifeMonths: 12,
		Method:           asset.MethodStraightLine,
		SalvageValue:     decimal.Zero,
		ActorID:          "scenario-loader",
	})
	if err != nil {
		return err
	}

	declining, err := h.Engine.CreateAsset(ctx, asset.CreateAssetInput{
		AssetTag:         "CNC-2025-001",
		Name:             "CNC Milling Machine",
		AcquisitionDate:  acquired,
		OriginalCost:     asset.MustParseDecimal("50000"),
		UsefulLifeMonths: 60,
		Method:           asset.MethodDecliningBalance,
		SalvageValue:     asset.MustParseDecimal("5000"),
		ActorID:          "scenario-loader",
	})
	if err != nil {
		return err
	}

	if err := postMonths(ctx, h, 2025, time.January, time.February); err != nil {
		return err
	}

	// A market appraisal bumps the machine's book value; subsequent
	// declining-balance postings depreciate off the new base.
	current, err := h.Engine.Store.GetAsset(ctx, declining.ID)
	if err != nil {
		return err
	}
	_, err = h.Engine.RevalueAsset(ctx, asset.RevalueAssetInput{
		AssetID:         declining.ID,
		NewValue:        current.CurrentValue.Add(asset.MustParseDecimal("2500")),
		RevaluationDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Reason:          "Market appraisal",
		ActorID:         "scenario-loader",
	})
	if err != nil {
		return err
	}

	return postMonths(ctx, h, 2025, time.March, time.March)
}

func loadFullLifecycleScenario(ctx context.Context, h *Handler) error {
	a, err := h.Engine.CreateAsset(ctx, asset.CreateAssetInput{
		AssetTag:         "PROJ-2024-001",
		Name:             "Conference Room Projector",
		AcquisitionDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		OriginalCost:     asset.MustParseDecimal("1200"),
		UsefulLifeMonths: 12,
		Method:           asset.MethodStraightLine,
		SalvageValue:     decimal.Zero,
		ActorID:          "scenario-loader",
	})
	if err != nil {
		return err
	}

	if err := postMonths(ctx, h, 2024, time.January, time.December); err != nil {
		return err
	}

	_, err = h.Engine.DisposeAsset(ctx, asset.DisposeAssetInput{
		AssetID:      a.ID,
		DisposalDate: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		Proceeds:     asset.MustParseDecimal("150"),
		Costs:        asset.MustParseDecimal("20"),
		Reason:       "Sold for scrap after full depreciation",
		ActorID:      "scenario-loader",
	})
	return err
}

// postMonths runs one posting pass per month of the given year, inclusive.
func postMonths(ctx context.Context, h *Handler, year int, from, through time.Month) error {
	for m := from; m <= through; m++ {
		period := asset.NewPeriod(year, m)
		result, err := h.Engine.RunPostingPeriod(ctx, period, period.Next().Start())
		if err != nil {
			return err
		}
		if len(result.Failed) > 0 {
			return fmt.Errorf("scenario posting for %s failed for %d assets, first: %w",
				period, len(result.Failed), result.Failed[0].Err)
		}
	}
	return nil
}
