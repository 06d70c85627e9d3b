package repository

import (
	"context"

	"pricemaster/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository is the read-only view of the item/BOM graph provider.
// Items and edges are authored elsewhere; the engine never mutates them.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// FindByCode resolves an active item by its catalog code.
	FindByCode(ctx context.Context, code string) (*model.Item, error)
	// ListEdges returns the active outgoing BOM edges of parentID with the
	// child item preloaded, ordered by child id so traversal is deterministic.
	ListEdges(ctx context.Context, parentID uuid.UUID) ([]model.BOMEdge, error)
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Where("code = ? AND active = true", code).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) ListEdges(ctx context.Context, parentID uuid.UUID) ([]model.BOMEdge, error) {
	var edges []model.BOMEdge
	err := r.db.WithContext(ctx).
		Where("parent_item_id = ? AND active = true", parentID).
		Order("child_item_id ASC").
		Preload("Child").
		Find(&edges).Error
	return edges, err
}
