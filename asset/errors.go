/*
errors.go - Centralized error types for the asset engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP status codes; the engine itself
  never formats user-facing text.

ERROR CATEGORIES:
  1. Validation errors - Bad input shape or range (never retried)
  2. State conflicts   - Operation illegal for current asset state
  3. Not found         - Unknown asset or category
  4. Store errors      - Transient infra failures (retryable)
  5. Schedule signals  - ScheduleExhausted is informational, not a failure

USAGE:
  if errors.Is(err, asset.ErrAlreadyDisposed) {
      // reject, leave existing disposal untouched
  }
  if asset.IsRetryable(err) {
      // safe to re-issue: postings are idempotent per (asset, period)
  }

SEE ALSO:
  - calculator.go: Returns ErrInvalidMethod / ErrScheduleExhausted
  - engine.go: Returns state conflict and validation errors
  - store.go: Store implementations surface ErrConcurrentModification
*/
package asset

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAssetNotFound is returned when a referenced asset doesn't exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrCategoryNotFound is returned when a referenced category doesn't exist.
	ErrCategoryNotFound = errors.New("asset category not found")

	// ErrAlreadyDisposed is returned on any mutating operation against a
	// disposed asset. The existing DisposalEntry is never touched.
	ErrAlreadyDisposed = errors.New("asset already disposed")

	// ErrInvalidDate is returned when a disposal or revaluation date precedes
	// the asset's acquisition date.
	ErrInvalidDate = errors.New("date precedes acquisition date")

	// ErrNoChange is returned when a revaluation names the current book value.
	// Rejected to keep the revaluation ledger meaningful.
	ErrNoChange = errors.New("revaluation would not change book value")

	// ErrInvalidMethod is returned by the calculator for an unrecognized
	// depreciation method.
	ErrInvalidMethod = errors.New("invalid depreciation method")

	// ErrScheduleExhausted signals that accumulated depreciation already
	// covers the depreciable base. The scheduler treats this as "nothing to
	// post", not a failure.
	ErrScheduleExhausted = errors.New("depreciation schedule exhausted")

	// ErrDuplicatePeriod is returned when an entry already exists for
	// (assetID, period). The scheduler skips silently; this surfaces only
	// when a caller bypasses the idempotent skip.
	ErrDuplicatePeriod = errors.New("depreciation entry already posted for period")

	// ErrDuplicateAssetTag is returned when creating an asset with a tag
	// that is already registered.
	ErrDuplicateAssetTag = errors.New("asset tag already exists")

	// ErrConcurrentModification is returned when the optimistic version check
	// detects a conflicting write to the same asset.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrStoreUnavailable wraps transient infrastructure failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a bad input field with enough detail to fix the
// request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// VersionConflictError provides details about an optimistic locking conflict.
type VersionConflictError struct {
	AssetID         AssetID
	ExpectedVersion int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("asset %s changed since read (expected version %d)", e.AssetID, e.ExpectedVersion)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrConcurrentModification
}

// StateConflictError wraps a sentinel state error with the asset it applies to.
type StateConflictError struct {
	AssetID AssetID
	Err     error
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("asset %s: %v", e.AssetID, e.Err)
}

func (e *StateConflictError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry. Retried
// postings are safe because of the (assetID, period) uniqueness check;
// disposal/revaluation retries are deduplicated by the state guards.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, ErrStoreUnavailable)
}

// IsClientError returns true if the error is due to invalid client input or
// an illegal state transition. Never retried automatically.
func IsClientError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrAlreadyDisposed) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNoChange) ||
		errors.Is(err, ErrInvalidMethod) ||
		errors.Is(err, ErrDuplicatePeriod) ||
		errors.Is(err, ErrDuplicateAssetTag)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrCategoryNotFound)
}
