package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/warp/asset-engine/asset"
)

func TestListScenarios(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/scenarios")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	list := decodeBody[[]ScenarioDTO](t, resp)
	if len(list) != 3 {
		t.Fatalf("Expected 3 scenarios, got %d", len(list))
	}
	for _, s := range list {
		if s.ID == "" || s.Description == "" {
			t.Errorf("Scenario missing metadata: %+v", s)
		}
	}
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scenario, got %d", resp.StatusCode)
	}
}

func TestLoadScenario_OfficeFleet(t *testing.T) {
	// GIVEN: An empty database
	// WHEN: Loading the office-fleet scenario
	// THEN: Two categories, three assets, and three posted months exist

	srv, mem := newTestServer(t)
	ctx := context.Background()

	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: "office-fleet"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	categories, err := mem.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("Expected 2 categories, got %d", len(categories))
	}

	assets, err := mem.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(assets))
	}
	for _, a := range assets {
		entries, err := mem.DepreciationEntries(ctx, a.ID)
		if err != nil {
			t.Fatalf("DepreciationEntries failed: %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("Asset %s: expected 3 posted months, got %d", a.AssetTag, len(entries))
		}
		sum := a.CurrentValue.Add(a.AccumulatedDepreciation)
		if !asset.WithinOneCent(sum, a.OriginalCost) {
			t.Errorf("Asset %s: value conservation broken: %v + %v != %v",
				a.AssetTag, a.CurrentValue, a.AccumulatedDepreciation, a.OriginalCost)
		}
	}
}

func TestLoadScenario_FullLifecycle(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: "full-lifecycle"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	assets, err := mem.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("Expected 1 asset, got %d", len(assets))
	}

	a := assets[0]
	if a.Status != asset.StatusDisposed {
		t.Errorf("Expected disposed status, got %s", a.Status)
	}

	entries, err := mem.DepreciationEntries(ctx, a.ID)
	if err != nil {
		t.Fatalf("DepreciationEntries failed: %v", err)
	}
	if len(entries) != 12 {
		t.Errorf("Expected a full 12-month schedule, got %d entries", len(entries))
	}

	disposal, err := mem.Disposal(ctx, a.ID)
	if err != nil {
		t.Fatalf("Disposal failed: %v", err)
	}
	if disposal == nil {
		t.Fatal("Expected a disposal entry")
	}
	// Fully depreciated to zero, so proceeds minus costs is pure gain.
	if !disposal.GainLoss.Equal(asset.MustParseDecimal("130")) {
		t.Errorf("Expected gain 130, got %v", disposal.GainLoss)
	}
}

func TestLoadScenario_MixedMethods(t *testing.T) {
	srv, mem := newTestServer(t)
	ctx := context.Background()

	resp := postJSON(t, srv.URL+"/api/scenarios/load", LoadScenarioRequest{ScenarioID: "mixed-methods"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	assets, err := mem.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("Expected 2 assets, got %d", len(assets))
	}

	var revalued *asset.FixedAsset
	for i := range assets {
		if assets[i].Method == asset.MethodDecliningBalance {
			revalued = &assets[i]
		}
	}
	if revalued == nil {
		t.Fatal("Expected a declining-balance asset")
	}

	revs, err := mem.Revaluations(ctx, revalued.ID)
	if err != nil {
		t.Fatalf("Revaluations failed: %v", err)
	}
	if len(revs) != 1 {
		t.Fatalf("Expected 1 revaluation, got %d", len(revs))
	}
	if revs[0].Type != asset.RevaluationUpward {
		t.Errorf("Expected upward revaluation, got %s", revs[0].Type)
	}

	entries, err := mem.DepreciationEntries(ctx, revalued.ID)
	if err != nil {
		t.Fatalf("DepreciationEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 posted months, got %d", len(entries))
	}
	// March posts off the revalued base, so its opening book value must
	// exceed February's closing book value.
	if !entries[2].BookValueBefore.GreaterThan(entries[1].BookValueAfter) {
		t.Errorf("March should open above February's close after the upward revaluation: %v vs %v",
			entries[2].BookValueBefore, entries[1].BookValueAfter)
	}
}
