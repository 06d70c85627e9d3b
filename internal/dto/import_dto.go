package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ImportRow is one raw input row of a batch price import. Field-level checks
// happen per row inside the service so a bad row never blocks its neighbors.
type ImportRow struct {
	ItemCode      string          `json:"item_code"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	EffectiveDate string          `json:"effective_date"`
	PriceType     string          `json:"price_type,omitempty"`
}

type BatchImportRequest struct {
	Items        []ImportRow `json:"items"         validate:"required"`
	ValidateOnly bool        `json:"validate_only"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// RowError pinpoints one failed check: 1-based row index plus the offending
// field, so callers can fix and resubmit precisely.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// Row outcome statuses reported in the preview.
const (
	RowStatusValid    = "valid"    // passed validation (preview mode)
	RowStatusCreated  = "created"  // persisted successfully (apply mode)
	RowStatusConflict = "conflict" // lost a uniqueness race at write time
)

type PreviewRow struct {
	RowIndex      int             `json:"row_index"`
	ItemID        string          `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	EffectiveDate string          `json:"effective_date"`
	PriceType     string          `json:"price_type"`
	Status        string          `json:"status"`
}

type BatchImportResponse struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	ValidCount int          `json:"valid_count"`
	ErrorCount int          `json:"error_count"`
	Errors     []RowError   `json:"errors"`
	Preview    []PreviewRow `json:"preview"`
}
