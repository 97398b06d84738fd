/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Monetary values
  cross the wire as fixed-point decimal strings ("1234.56"), never as JSON
  numbers, to keep cent exactness end to end.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Shape validation (dates, decimals) is done in handlers; business
  validation belongs to the engine. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - asset/types.go: Domain model these map from
*/
package api

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AssetDTO represents a fixed asset in API responses.
type AssetDTO struct {
	ID                      string  `json:"id"`
	AssetTag                string  `json:"asset_tag"`
	Name                    string  `json:"name"`
	CategoryID              string  `json:"category_id,omitempty"`
	AcquisitionDate         string  `json:"acquisition_date"`
	OriginalCost            string  `json:"original_cost"`
	UsefulLifeMonths        int     `json:"useful_life_months"`
	DepreciationMethod      string  `json:"depreciation_method"`
	SalvageValue            string  `json:"salvage_value"`
	CurrentValue            string  `json:"current_value"`
	AccumulatedDepreciation string  `json:"accumulated_depreciation"`
	Status                  string  `json:"status"`
	LastDepreciationDate    *string `json:"last_depreciation_date,omitempty"`
	DisposalDate            *string `json:"disposal_date,omitempty"`
	DisposalReason          string  `json:"disposal_reason,omitempty"`
	CreatedAt               string  `json:"created_at,omitempty"`
}

// CreateAssetRequest is the request to register an acquisition. Method,
// useful_life_months, and salvage_value may be omitted to take category
// defaults.
type CreateAssetRequest struct {
	AssetTag           string  `json:"asset_tag"`
	Name               string  `json:"name"`
	CategoryID         string  `json:"category_id,omitempty"`
	AcquisitionDate    string  `json:"acquisition_date"`
	OriginalCost       string  `json:"original_cost"`
	UsefulLifeMonths   int     `json:"useful_life_months,omitempty"`
	DepreciationMethod string  `json:"depreciation_method,omitempty"`
	DecliningRate      string  `json:"declining_rate,omitempty"`
	SalvageValue       *string `json:"salvage_value,omitempty"`
	ActorID            string  `json:"actor_id,omitempty"`
}

// DepreciationEntryDTO represents one periodic ledger entry.
type DepreciationEntryDTO struct {
	ID              string `json:"id"`
	AssetID         string `json:"asset_id"`
	Period          string `json:"period"`
	Amount          string `json:"amount"`
	BookValueBefore string `json:"book_value_before"`
	BookValueAfter  string `json:"book_value_after"`
	PostingDate     string `json:"posting_date"`
}

// DisposalEntryDTO represents the terminal ledger entry.
type DisposalEntryDTO struct {
	ID           string `json:"id"`
	AssetID      string `json:"asset_id"`
	DisposalDate string `json:"disposal_date"`
	Proceeds     string `json:"proceeds"`
	Costs        string `json:"costs"`
	NetBookValue string `json:"net_book_value"`
	GainLoss     string `json:"gain_loss"`
	Reason       string `json:"reason,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// DisposeAssetRequest is the request to dispose an asset.
type DisposeAssetRequest struct {
	DisposalDate string `json:"disposal_date"`
	Proceeds     string `json:"proceeds"`
	Costs        string `json:"costs"`
	Reason       string `json:"reason,omitempty"`
	Notes        string `json:"notes,omitempty"`
	ActorID      string `json:"actor_id,omitempty"`
}

// RevaluationDTO represents a book value rebase.
type RevaluationDTO struct {
	ID              string `json:"id"`
	AssetID         string `json:"asset_id"`
	RevaluationDate string `json:"revaluation_date"`
	PreviousValue   string `json:"previous_value"`
	NewValue        string `json:"new_value"`
	Type            string `json:"type"`
	Reason          string `json:"reason,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// RevalueAssetRequest is the request to revalue an asset.
type RevalueAssetRequest struct {
	NewValue        string `json:"new_value"`
	RevaluationDate string `json:"revaluation_date"`
	Reason          string `json:"reason,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ActorID         string `json:"actor_id,omitempty"`
}

// LedgerDTO is the fully materialized asset history.
type LedgerDTO struct {
	Asset        AssetDTO               `json:"asset"`
	Entries      []DepreciationEntryDTO `json:"entries"`
	Revaluations []RevaluationDTO       `json:"revaluations"`
	Disposal     *DisposalEntryDTO      `json:"disposal,omitempty"`
}

// RunPostingRequest triggers a depreciation posting pass.
type RunPostingRequest struct {
	Period      string `json:"period"`       // YYYY-MM
	PostingDate string `json:"posting_date"` // YYYY-MM-DD, defaults to today
}

// PostingRunDTO is the structured per-asset outcome of a pass. Truncated
// marks a pass that stopped before dispatching every asset (cancellation);
// re-running the same period finishes the rest.
type PostingRunDTO struct {
	Period    string           `json:"period"`
	Posted    []string         `json:"posted"`
	Skipped   []string         `json:"skipped"`
	Failed    []PostingFailure `json:"failed"`
	Truncated bool             `json:"truncated,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type PostingFailure struct {
	AssetID string `json:"asset_id"`
	Error   string `json:"error"`
}

// CategoryDTO represents an asset category.
type CategoryDTO struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	UsefulLifeMinMonths   int    `json:"useful_life_min_months"`
	UsefulLifeMaxMonths   int    `json:"useful_life_max_months"`
	DefaultMethod         string `json:"default_method"`
	DefaultSalvagePercent string `json:"default_salvage_percent"`
	IsActive              bool   `json:"is_active"`
}

// SaveCategoryRequest creates or updates a category.
type SaveCategoryRequest struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	UsefulLifeMinMonths   int    `json:"useful_life_min_months"`
	UsefulLifeMaxMonths   int    `json:"useful_life_max_months"`
	DefaultMethod         string `json:"default_method"`
	DefaultSalvagePercent string `json:"default_salvage_percent"`
	IsActive              bool   `json:"is_active"`
}

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects which scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// LoadScenarioResponse reports what the loader created.
type LoadScenarioResponse struct {
	ScenarioID string `json:"scenario_id"`
	Message    string `json:"message"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
