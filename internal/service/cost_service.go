package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricemaster/internal/apierror"
	"pricemaster/internal/cache"
	"pricemaster/internal/dto"
	"pricemaster/internal/model"
	"pricemaster/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const effectiveDateLayout = "2006-01-02"

// CostService resolves a manufactured item's cost from its multi-level BOM.
type CostService interface {
	Calculate(ctx context.Context, req dto.CalculateCostRequest) (*dto.CostResponse, error)
}

type costService struct {
	items       repository.ItemRepository
	prices      repository.PriceRepository
	cache       cache.CostCache
	laborPct    decimal.Decimal
	overheadPct decimal.Decimal
	maxDepth    int
}

// NewCostService builds the resolver. laborPct and overheadPct are whole
// percentages (10 means 10%) applied once at the root of the tree; maxDepth
// bounds recursion independently of cycle detection.
func NewCostService(
	items repository.ItemRepository,
	prices repository.PriceRepository,
	costCache cache.CostCache,
	laborPct, overheadPct decimal.Decimal,
	maxDepth int,
) CostService {
	return &costService{
		items:       items,
		prices:      prices,
		cache:       costCache,
		laborPct:    laborPct,
		overheadPct: overheadPct,
		maxDepth:    maxDepth,
	}
}

// traversal carries the per-calculation state: the ancestor set for cycle
// detection and the accumulated list of items with no applicable price.
// It lives for exactly one Calculate call, keeping the resolver a pure
// function of its inputs.
type traversal struct {
	ancestors   map[uuid.UUID]bool
	missing     []string
	missingSeen map[uuid.UUID]bool
}

func (t *traversal) recordMissing(id uuid.UUID) {
	if t.missingSeen[id] {
		return
	}
	t.missingSeen[id] = true
	t.missing = append(t.missing, id.String())
}

func (s *costService) Calculate(ctx context.Context, req dto.CalculateCostRequest) (*dto.CostResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, apierror.Validation("item_id is not a valid UUID")
	}
	asOf, err := time.Parse(effectiveDateLayout, req.EffectiveDate)
	if err != nil {
		return nil, apierror.Validation("effective_date must be formatted %s", effectiveDateLayout)
	}

	root, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("item %s not found", req.ItemID)
		}
		return nil, apierror.Store(err)
	}

	key := cache.Key(itemID, asOf, req.IncludeLabor, req.IncludeOverhead)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	t := &traversal{
		ancestors:   make(map[uuid.UUID]bool),
		missing:     []string{},
		missingSeen: make(map[uuid.UUID]bool),
	}

	tree, err := s.resolve(ctx, root, decimal.NewFromInt(1), asOf, t, 0)
	if err != nil {
		return nil, err
	}

	// Labor and overhead apply once, at the root, never per level —
	// compounding through multi-level trees is exactly the bug this avoids.
	material := tree.ExtendedCost
	labor := decimal.Zero
	overhead := decimal.Zero
	hundred := decimal.NewFromInt(100)
	if req.IncludeLabor {
		labor = material.Mul(s.laborPct).Div(hundred)
	}
	if req.IncludeOverhead {
		overhead = material.Mul(s.overheadPct).Div(hundred)
	}

	msg := "cost calculated"
	if len(t.missing) > 0 {
		msg = fmt.Sprintf("cost calculated with %d item(s) missing a price — result is incomplete", len(t.missing))
	}

	resp := &dto.CostResponse{
		Success:           true,
		Message:           msg,
		ItemID:            itemID.String(),
		EffectiveDate:     asOf.Format(effectiveDateLayout),
		TotalMaterialCost: material,
		TotalLaborCost:    labor,
		TotalOverheadCost: overhead,
		CalculatedPrice:   material.Add(labor).Add(overhead),
		BOMTree:           tree,
		MissingPrices:     t.missing,
	}
	s.cache.Set(ctx, key, resp)
	return resp, nil
}

// resolve computes the cost node for item, consumed at quantity qty by its
// parent. Leaves price-lookup; non-leaves sum quantity-weighted child costs.
func (s *costService) resolve(
	ctx context.Context,
	item *model.Item,
	qty decimal.Decimal,
	asOf time.Time,
	t *traversal,
	depth int,
) (*dto.CostNode, error) {
	if depth > s.maxDepth {
		return nil, apierror.DepthExceeded("BOM depth exceeds the limit of %d at item %s", s.maxDepth, item.ID)
	}

	t.ancestors[item.ID] = true
	defer delete(t.ancestors, item.ID)

	edges, err := s.items.ListEdges(ctx, item.ID)
	if err != nil {
		return nil, apierror.Store(err)
	}

	node := &dto.CostNode{
		ItemID:   item.ID.String(),
		ItemCode: item.Code,
		ItemName: item.Name,
		Quantity: qty,
	}

	if len(edges) == 0 {
		// Leaf: direct price lookup. A missing price contributes zero and is
		// reported, never raised — callers see the cost as incomplete.
		rec, err := s.prices.FindEffective(ctx, item.ID, asOf)
		switch {
		case err == nil:
			node.UnitCost = rec.UnitPrice
		case errors.Is(err, gorm.ErrRecordNotFound):
			node.MissingPrice = true
			node.UnitCost = decimal.Zero
			t.recordMissing(item.ID)
		default:
			return nil, apierror.Store(err)
		}
		node.ExtendedCost = node.UnitCost.Mul(qty)
		return node, nil
	}

	materialCost := decimal.Zero
	for _, edge := range edges {
		if t.ancestors[edge.ChildItemID] {
			return nil, apierror.CycleDetected(
				"BOM cycle detected on edge %s -> %s", edge.ParentItemID, edge.ChildItemID)
		}
		child := edge.Child
		if child == nil {
			// Edge points at an item the provider no longer knows. Treated
			// like a missing price: reported, contributes zero.
			t.recordMissing(edge.ChildItemID)
			continue
		}
		childNode, err := s.resolve(ctx, child, edge.QuantityRequired, asOf, t, depth+1)
		if err != nil {
			return nil, err
		}
		materialCost = materialCost.Add(childNode.ExtendedCost)
		node.Children = append(node.Children, *childNode)
	}

	node.UnitCost = materialCost
	node.ExtendedCost = materialCost.Mul(qty)
	return node, nil
}
