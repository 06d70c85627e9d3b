package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price record origin types.
const (
	PriceTypeManual     = "manual"
	PriceTypePurchase   = "purchase"
	PriceTypeProduction = "production"
)

// PriceRecord is one unit price for an item, effective from a given date.
// The store enforces UNIQUE (item_id, effective_date); at most one record per
// item may carry IsCurrent=true (partial unique index, see infra patches).
// Records are created by manual entry or batch import and removed only by the
// duplicate cleanup executor.
type PriceRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID        uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_item_effective;not null"`
	EffectiveDate time.Time       `gorm:"type:date;uniqueIndex:idx_item_effective;not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceType     string          `gorm:"not null;default:'manual'"`
	IsCurrent     bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (PriceRecord) TableName() string { return "price_records" }
