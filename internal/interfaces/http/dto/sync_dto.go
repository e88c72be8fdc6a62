package dto

import (
	"time"

	"github.com/fibermade/backend/internal/domain/bulk"
)

// SyncRunResponse represents a bulk import run in API responses
type SyncRunResponse struct {
	ID            string             `json:"id"`
	IntegrationID string             `json:"integration_id"`
	Status        string             `json:"status"`
	Total         int                `json:"total"`
	Imported      int                `json:"imported"`
	Failed        int                `json:"failed"`
	Errors        []SyncRunErrorInfo `json:"errors,omitempty"`
	LastCursor    string             `json:"last_cursor,omitempty"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// SyncRunErrorInfo represents one failed item within a run
type SyncRunErrorInfo struct {
	ItemID     string    `json:"item_id,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SyncRunResponseFromDomain converts a domain run to its API shape
func SyncRunResponseFromDomain(run *bulk.SyncRun) SyncRunResponse {
	resp := SyncRunResponse{
		ID:            run.ID.String(),
		IntegrationID: run.IntegrationID.String(),
		Status:        string(run.Status),
		Total:         run.Total,
		Imported:      run.Imported,
		Failed:        run.Failed,
		LastCursor:    run.LastCursor,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
		CreatedAt:     run.CreatedAt,
		UpdatedAt:     run.UpdatedAt,
	}
	for _, e := range run.Errors {
		resp.Errors = append(resp.Errors, SyncRunErrorInfo{
			ItemID:     e.ItemID,
			Message:    e.Message,
			OccurredAt: e.OccurredAt,
		})
	}
	return resp
}

// PushResponse represents the outcome of pushing a colorway to the storefront
type PushResponse struct {
	ColorwayID      string                `json:"colorway_id"`
	RemoteProductID string                `json:"remote_product_id,omitempty"`
	Skipped         bool                  `json:"skipped"`
	Variants        []PushVariantResponse `json:"variants,omitempty"`
}

// PushVariantResponse pairs a created remote variant with its inventory row
type PushVariantResponse struct {
	InventoryID     string `json:"inventory_id"`
	RemoteVariantID string `json:"remote_variant_id"`
}

// IntegrationLogResponse represents one sync audit entry
type IntegrationLogResponse struct {
	ID           string         `json:"id"`
	LoggableType string         `json:"loggable_type"`
	LoggableID   string         `json:"loggable_id"`
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	SyncedAt     time.Time      `json:"synced_at"`
}

// ListLogsRequest represents query parameters for the audit log listing
type ListLogsRequest struct {
	Status       string `form:"status" binding:"omitempty,oneof=success warning error"`
	LoggableType string `form:"loggable_type"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
