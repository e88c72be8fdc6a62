package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxRunErrors caps the error list kept on a sync run. Once full, the oldest
// entry is dropped for each new one, so the run always shows the most recent
// failures.
const MaxRunErrors = 20

// ---------------------------------------------------------------------------
// RunStatus
// ---------------------------------------------------------------------------

// RunStatus represents the status of a bulk import run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// IsValid checks if the status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusInProgress, RunStatusComplete, RunStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusComplete || s == RunStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition. The full lifecycle is pending -> in_progress -> {complete, failed}.
func (s RunStatus) CanTransitionTo(next RunStatus) bool {
	switch s {
	case RunStatusPending:
		return next == RunStatusInProgress
	case RunStatusInProgress:
		return next == RunStatusComplete || next == RunStatusFailed
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// SyncRun Aggregate
// ---------------------------------------------------------------------------

// RunError records one failed item within a bulk run
type RunError struct {
	// ItemID identifies the remote entity that failed, when known
	ItemID string `json:"item_id,omitempty"`
	// Message is the failure message
	Message string `json:"message"`
	// OccurredAt is when the failure was recorded
	OccurredAt time.Time `json:"occurred_at"`
}

// SyncRun tracks the progress of one full-catalog bulk import. Counters are
// updated per item and persisted after every remote page, so a crashed run
// can be inspected and retried. Invariant: Imported + Failed == Total after
// every fully-processed page.
type SyncRun struct {
	// ID is the unique identifier of this run
	ID uuid.UUID
	// IntegrationID scopes the run to one storefront integration
	IntegrationID uuid.UUID
	// Status is the run lifecycle status
	Status RunStatus
	// Total is the number of remote products seen so far
	Total int
	// Imported is the number of products synced (including skips)
	Imported int
	// Failed is the number of products whose sync failed
	Failed int
	// Errors holds the most recent item failures, capped at MaxRunErrors
	Errors []RunError
	// LastCursor is the last pagination cursor successfully processed
	LastCursor string
	// StartedAt is when the run entered in_progress
	StartedAt *time.Time
	// CompletedAt is when the run reached a terminal state
	CompletedAt *time.Time
	// CreatedAt is when this run was created
	CreatedAt time.Time
	// UpdatedAt is when this run was last updated
	UpdatedAt time.Time
}

// NewSyncRun creates a new pending run for an integration
func NewSyncRun(integrationID uuid.UUID) (*SyncRun, error) {
	if integrationID == uuid.Nil {
		return nil, fmt.Errorf("bulk: invalid integration ID")
	}

	now := time.Now()
	return &SyncRun{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		Status:        RunStatusPending,
		Errors:        make([]RunError, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Start moves the run into in_progress
func (r *SyncRun) Start() error {
	if !r.Status.CanTransitionTo(RunStatusInProgress) {
		return fmt.Errorf("bulk: cannot start run from state %s", r.Status)
	}
	now := time.Now()
	r.Status = RunStatusInProgress
	r.StartedAt = &now
	r.UpdatedAt = now
	return nil
}

// BeginPage records that a page of pageSize remote products is about to be
// processed
func (r *SyncRun) BeginPage(pageSize int) {
	r.Total += pageSize
	r.UpdatedAt = time.Now()
}

// RecordImported counts one successfully synced product. A skipped product
// counts as imported, the net catalog state is correct either way.
func (r *SyncRun) RecordImported() {
	r.Imported++
	r.UpdatedAt = time.Now()
}

// RecordFailed counts one failed product and appends its error, dropping the
// oldest entry once the cap is reached
func (r *SyncRun) RecordFailed(itemID string, err error) {
	r.Failed++
	r.appendError(itemID, err)
}

// RecordPhaseError appends an error without touching the counters. Used for
// the best-effort collection phase, which does not contribute to the
// per-product totals.
func (r *SyncRun) RecordPhaseError(phase string, err error) {
	r.appendError(phase, err)
}

func (r *SyncRun) appendError(itemID string, err error) {
	if len(r.Errors) >= MaxRunErrors {
		r.Errors = r.Errors[1:]
	}
	r.Errors = append(r.Errors, RunError{
		ItemID:     itemID,
		Message:    err.Error(),
		OccurredAt: time.Now(),
	})
	r.UpdatedAt = time.Now()
}

// AdvanceCursor records the cursor of the last successfully processed page
func (r *SyncRun) AdvanceCursor(cursor string) {
	r.LastCursor = cursor
	r.UpdatedAt = time.Now()
}

// Complete moves the run into its successful terminal state
func (r *SyncRun) Complete() error {
	if !r.Status.CanTransitionTo(RunStatusComplete) {
		return fmt.Errorf("bulk: cannot complete run from state %s", r.Status)
	}
	now := time.Now()
	r.Status = RunStatusComplete
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// Fail moves the run into its failed terminal state, recording the fatal
// error and the last cursor reached
func (r *SyncRun) Fail(cursor string, err error) error {
	if !r.Status.CanTransitionTo(RunStatusFailed) {
		return fmt.Errorf("bulk: cannot fail run from state %s", r.Status)
	}
	now := time.Now()
	r.Status = RunStatusFailed
	r.LastCursor = cursor
	r.appendError(fmt.Sprintf("cursor=%s", cursor), err)
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// CountersConsistent reports whether every seen product has been accounted
// for as either imported or failed
func (r *SyncRun) CountersConsistent() bool {
	return r.Imported+r.Failed == r.Total
}

// ErrorsJSON returns the error list as a JSON string
func (r *SyncRun) ErrorsJSON() (string, error) {
	if len(r.Errors) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(r.Errors)
	if err != nil {
		return "", fmt.Errorf("bulk: marshal run errors: %w", err)
	}
	return string(data), nil
}

// SetErrorsFromJSON parses the error list from a JSON string
func (r *SyncRun) SetErrorsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		r.Errors = make([]RunError, 0)
		return nil
	}
	var errs []RunError
	if err := json.Unmarshal([]byte(jsonStr), &errs); err != nil {
		return fmt.Errorf("bulk: unmarshal run errors: %w", err)
	}
	r.Errors = errs
	return nil
}
