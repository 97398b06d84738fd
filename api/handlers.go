/*
handlers.go - HTTP API handlers for the asset engine

PURPOSE:
  Exposes the depreciation engine's command surface via REST. Handles HTTP
  request/response, JSON serialization, and delegates everything else to
  the engine - no business rules live here.

ENDPOINTS:
  Assets:
    GET    /api/assets               List all assets
    POST   /api/assets               Register an acquisition
    GET    /api/assets/{id}          Get asset summary
    GET    /api/assets/{id}/ledger   Full ledger history
    POST   /api/assets/{id}/dispose  Dispose asset
    POST   /api/assets/{id}/revalue  Revalue asset

  Postings:
    POST   /api/postings/run         Run a depreciation posting pass

  Categories:
    GET    /api/categories           List categories
    POST   /api/categories           Create/update a category

  Scenarios (dev only):
    GET    /api/scenarios            List demo scenarios
    POST   /api/scenarios/load       Load demo data

ERROR HANDLING:
  Engine error kinds map onto HTTP status:
  - 400: validation errors
  - 404: unknown asset/category
  - 409: state conflicts (already disposed, no-change revaluation, duplicate period)
  - 503: retryable store errors (version conflict, store unavailable)
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - asset/engine.go: The commands these delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/asset-engine/asset"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine     *asset.Engine
	Categories asset.CategoryStore
}

// NewHandler creates a new handler around the engine.
func NewHandler(engine *asset.Engine) *Handler {
	return &Handler{Engine: engine, Categories: engine.Categories}
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// ListAssets returns all assets.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Engine.Store.ListAssets(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]AssetDTO, len(assets))
	for i, a := range assets {
		dtos[i] = toAssetDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAsset returns a single asset summary.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	a, err := h.Engine.Store.GetAsset(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(a))
}

// CreateAsset registers an acquisition.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	acquired, err := time.Parse("2006-01-02", req.AcquisitionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid acquisition_date format (use YYYY-MM-DD)", err)
		return
	}
	cost, err := decimal.NewFromString(req.OriginalCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid original_cost", err)
		return
	}

	// Negative salvage means "not supplied" to the engine; zero is a valid
	// explicit salvage, so the wire field is a pointer.
	salvage := decimal.NewFromInt(-1)
	if req.SalvageValue != nil {
		salvage, err = decimal.NewFromString(*req.SalvageValue)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid salvage_value", err)
			return
		}
	}

	var decliningRate decimal.Decimal
	if req.DecliningRate != "" {
		decliningRate, err = decimal.NewFromString(req.DecliningRate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid declining_rate", err)
			return
		}
	}

	a, err := h.Engine.CreateAsset(r.Context(), asset.CreateAssetInput{
		AssetTag:         req.AssetTag,
		Name:             req.Name,
		CategoryID:       asset.CategoryID(req.CategoryID),
		AcquisitionDate:  acquired,
		OriginalCost:     cost,
		UsefulLifeMonths: req.UsefulLifeMonths,
		Method:           asset.DepreciationMethod(req.DepreciationMethod),
		DecliningRate:    decliningRate,
		SalvageValue:     salvage,
		ActorID:          req.ActorID,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetDTO(*a))
}

// GetLedger returns the asset's full ledger history.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	ledger, err := h.Engine.GetAssetLedger(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dto := LedgerDTO{
		Asset:        toAssetDTO(ledger.Asset),
		Entries:      make([]DepreciationEntryDTO, len(ledger.Entries)),
		Revaluations: make([]RevaluationDTO, len(ledger.Revaluations)),
	}
	for i, e := range ledger.Entries {
		dto.Entries[i] = DepreciationEntryDTO{
			ID:              string(e.ID),
			AssetID:         string(e.AssetID),
			Period:          e.Period.Key(),
			Amount:          e.Amount.StringFixed(2),
			BookValueBefore: e.BookValueBefore.StringFixed(2),
			BookValueAfter:  e.BookValueAfter.StringFixed(2),
			PostingDate:     e.PostingDate.Format("2006-01-02"),
		}
	}
	for i, rev := range ledger.Revaluations {
		dto.Revaluations[i] = toRevaluationDTO(rev)
	}
	if ledger.Disposal != nil {
		d := toDisposalDTO(*ledger.Disposal)
		dto.Disposal = &d
	}
	writeJSON(w, http.StatusOK, dto)
}

// DisposeAsset closes an asset's schedule and records the terminal entry.
func (h *Handler) DisposeAsset(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	var req DisposeAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	disposalDate, err := time.Parse("2006-01-02", req.DisposalDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid disposal_date format (use YYYY-MM-DD)", err)
		return
	}
	proceeds, err := decimal.NewFromString(req.Proceeds)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid proceeds", err)
		return
	}
	costs := decimal.Zero
	if req.Costs != "" {
		costs, err = decimal.NewFromString(req.Costs)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid costs", err)
			return
		}
	}

	entry, err := h.Engine.DisposeAsset(r.Context(), asset.DisposeAssetInput{
		AssetID:      id,
		DisposalDate: disposalDate,
		Proceeds:     proceeds,
		Costs:        costs,
		Reason:       req.Reason,
		Notes:        req.Notes,
		ActorID:      req.ActorID,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDisposalDTO(*entry))
}

// RevalueAsset rebases an asset's book value.
func (h *Handler) RevalueAsset(w http.ResponseWriter, r *http.Request) {
	id := asset.AssetID(chi.URLParam(r, "id"))

	var req RevalueAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	revaluationDate, err := time.Parse("2006-01-02", req.RevaluationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid revaluation_date format (use YYYY-MM-DD)", err)
		return
	}
	newValue, err := decimal.NewFromString(req.NewValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_value", err)
		return
	}

	rev, err := h.Engine.RevalueAsset(r.Context(), asset.RevalueAssetInput{
		AssetID:         id,
		NewValue:        newValue,
		RevaluationDate: revaluationDate,
		Reason:          req.Reason,
		Notes:           req.Notes,
		ActorID:         req.ActorID,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRevaluationDTO(*rev))
}

// =============================================================================
// POSTING HANDLERS
// =============================================================================

// RunPosting executes a depreciation posting pass for a period.
func (h *Handler) RunPosting(w http.ResponseWriter, r *http.Request) {
	var req RunPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period, err := asset.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use YYYY-MM)", err)
		return
	}

	postingDate := time.Now().UTC()
	if req.PostingDate != "" {
		postingDate, err = time.Parse("2006-01-02", req.PostingDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid posting_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	result, err := h.Engine.RunPostingPeriod(r.Context(), period, postingDate)
	if err != nil && result == nil {
		writeEngineError(w, err)
		return
	}

	dto := PostingRunDTO{
		Period:  result.Period.Key(),
		Posted:  make([]string, len(result.Posted)),
		Skipped: make([]string, len(result.Skipped)),
		Failed:  make([]PostingFailure, len(result.Failed)),
	}
	for i, id := range result.Posted {
		dto.Posted[i] = string(id)
	}
	for i, id := range result.Skipped {
		dto.Skipped[i] = string(id)
	}
	for i, f := range result.Failed {
		dto.Failed[i] = PostingFailure{AssetID: string(f.AssetID), Error: f.Err.Error()}
	}
	// A partial pass (cancelled mid-dispatch) still returns its per-asset
	// outcomes, flagged so the caller knows to re-run the period.
	if err != nil {
		dto.Truncated = true
		dto.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories returns all asset categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.ListCategories(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = CategoryDTO{
			ID:                    string(c.ID),
			Name:                  c.Name,
			UsefulLifeMinMonths:   c.DefaultUsefulLifeMinMonths,
			UsefulLifeMaxMonths:   c.DefaultUsefulLifeMaxMonths,
			DefaultMethod:         string(c.DefaultMethod),
			DefaultSalvagePercent: c.DefaultSalvagePercent.String(),
			IsActive:              c.IsActive,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveCategory creates or updates a category.
func (h *Handler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	var req SaveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	method := asset.DepreciationMethod(req.DefaultMethod)
	if !method.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown default_method", nil)
		return
	}
	salvagePercent, err := decimal.NewFromString(req.DefaultSalvagePercent)
	if err != nil || salvagePercent.IsNegative() || salvagePercent.GreaterThan(decimal.NewFromInt(100)) {
		writeError(w, http.StatusBadRequest, "default_salvage_percent must be 0-100", err)
		return
	}

	c := asset.AssetCategory{
		ID:                         asset.CategoryID(req.ID),
		Name:                       req.Name,
		DefaultUsefulLifeMinMonths: req.UsefulLifeMinMonths,
		DefaultUsefulLifeMaxMonths: req.UsefulLifeMaxMonths,
		DefaultMethod:              method,
		DefaultSalvagePercent:      salvagePercent,
		IsActive:                   req.IsActive,
	}
	if err := h.Categories.SaveCategory(r.Context(), c); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func toAssetDTO(a asset.FixedAsset) AssetDTO {
	dto := AssetDTO{
		ID:                      string(a.ID),
		AssetTag:                a.AssetTag,
		Name:                    a.Name,
		CategoryID:              string(a.CategoryID),
		AcquisitionDate:         a.AcquisitionDate.Format("2006-01-02"),
		OriginalCost:            a.OriginalCost.StringFixed(2),
		UsefulLifeMonths:        a.UsefulLifeMonths,
		DepreciationMethod:      string(a.Method),
		SalvageValue:            a.SalvageValue.StringFixed(2),
		CurrentValue:            a.CurrentValue.StringFixed(2),
		AccumulatedDepreciation: a.AccumulatedDepreciation.StringFixed(2),
		Status:                  string(a.Status),
		DisposalReason:          a.DisposalReason,
		CreatedAt:               a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastDepreciationDate != nil {
		s := a.LastDepreciationDate.Format("2006-01-02")
		dto.LastDepreciationDate = &s
	}
	if a.DisposalDate != nil {
		s := a.DisposalDate.Format("2006-01-02")
		dto.DisposalDate = &s
	}
	return dto
}

func toDisposalDTO(e asset.DisposalEntry) DisposalEntryDTO {
	return DisposalEntryDTO{
		ID:           string(e.ID),
		AssetID:      string(e.AssetID),
		DisposalDate: e.DisposalDate.Format("2006-01-02"),
		Proceeds:     e.Proceeds.StringFixed(2),
		Costs:        e.Costs.StringFixed(2),
		NetBookValue: e.NetBookValue.StringFixed(2),
		GainLoss:     e.GainLoss.StringFixed(2),
		Reason:       e.Reason,
		Notes:        e.Notes,
	}
}

func toRevaluationDTO(rev asset.AssetRevaluation) RevaluationDTO {
	return RevaluationDTO{
		ID:              string(rev.ID),
		AssetID:         string(rev.AssetID),
		RevaluationDate: rev.RevaluationDate.Format("2006-01-02"),
		PreviousValue:   rev.PreviousValue.StringFixed(2),
		NewValue:        rev.NewValue.StringFixed(2),
		Type:            string(rev.Type),
		Reason:          rev.Reason,
		Notes:           rev.Notes,
	}
}

// writeEngineError translates engine error kinds to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case asset.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case asset.IsClientError(err):
		status := http.StatusConflict
		var ve *asset.ValidationError
		if errors.As(err, &ve) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Request rejected", err)
	case asset.IsRetryable(err):
		writeError(w, http.StatusServiceUnavailable, "Temporarily unavailable, retry the request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
