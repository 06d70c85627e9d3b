package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CalculateCostRequest struct {
	ItemID          string `json:"item_id"          validate:"required"`
	EffectiveDate   string `json:"effective_date"   validate:"required"`
	IncludeLabor    bool   `json:"include_labor"`
	IncludeOverhead bool   `json:"include_overhead"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CostNode mirrors one node of the BOM subtree rooted at the requested item.
// ExtendedCost = UnitCost × Quantity relative to the node's parent.
type CostNode struct {
	ItemID       string          `json:"item_id"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ExtendedCost decimal.Decimal `json:"extended_cost"`
	MissingPrice bool            `json:"missing_price,omitempty"`
	Children     []CostNode      `json:"children,omitempty"`
}

type CostResponse struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message"`
	ItemID            string          `json:"item_id"`
	EffectiveDate     string          `json:"effective_date"`
	TotalMaterialCost decimal.Decimal `json:"total_material_cost"`
	TotalLaborCost    decimal.Decimal `json:"total_labor_cost"`
	TotalOverheadCost decimal.Decimal `json:"total_overhead_cost"`
	CalculatedPrice   decimal.Decimal `json:"calculated_price"`
	BOMTree           *CostNode       `json:"bom_tree"`
	MissingPrices     []string        `json:"missing_prices"`
}
