package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMEdge links a manufactured parent item to one of its components.
// One parent unit consumes QuantityRequired units of the child.
// Edges are authored independently of each other, so the graph as a whole
// carries no acyclicity guarantee — traversal must verify it defensively.
type BOMEdge struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParentItemID     uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_parent_child;not null"`
	ChildItemID      uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_parent_child;not null"`
	QuantityRequired decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Active           bool            `gorm:"not null;default:true"`

	Parent *Item `gorm:"foreignKey:ParentItemID"`
	Child  *Item `gorm:"foreignKey:ChildItemID"`
}

func (BOMEdge) TableName() string { return "bom_edges" }
