package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePriceRequest struct {
	ItemID        string          `json:"item_id"        validate:"required"`
	EffectiveDate string          `json:"effective_date" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price"     validate:"required,gt=0"`
	PriceType     string          `json:"price_type"     validate:"omitempty,oneof=manual purchase production"`
	IsCurrent     bool            `json:"is_current"`
}

type PriceListFilter struct {
	Page  int
	Limit int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceRecordDTO struct {
	PriceID       string          `json:"price_id"`
	ItemID        string          `json:"item_id"`
	EffectiveDate string          `json:"effective_date"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PriceType     string          `json:"price_type"`
	IsCurrent     bool            `json:"is_current"`
	CreatedAt     string          `json:"created_at"`
}

type PriceResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    PriceRecordDTO `json:"data"`
}

type PriceListResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []PriceRecordDTO `json:"data"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}
