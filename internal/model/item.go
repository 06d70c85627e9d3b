package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is the catalog master record for a purchasable or manufactured article.
// Items are authored by the catalog system — this engine only reads them.
type Item struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"index;not null"`
	Category      string    `gorm:"not null"`
	UnitOfMeasure string    `gorm:"not null;default:'unit'"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Item) TableName() string { return "items" }
