package service

import (
	"context"
	"sort"
	"time"

	"pricemaster/internal/model"
	"pricemaster/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ItemRepository stub ────────────────────────────────────────────

type stubItemRepo struct {
	items map[uuid.UUID]*model.Item
	edges map[uuid.UUID][]model.BOMEdge
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{
		items: make(map[uuid.UUID]*model.Item),
		edges: make(map[uuid.UUID][]model.BOMEdge),
	}
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubItemRepo) FindByCode(_ context.Context, code string) (*model.Item, error) {
	for _, item := range r.items {
		if item.Code == code && item.Active {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) ListEdges(_ context.Context, parentID uuid.UUID) ([]model.BOMEdge, error) {
	edges := make([]model.BOMEdge, 0)
	for _, e := range r.edges[parentID] {
		if !e.Active {
			continue
		}
		e.Child = r.items[e.ChildItemID]
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].ChildItemID.String() < edges[j].ChildItemID.String()
	})
	return edges, nil
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// ── In-memory PriceRepository stub ───────────────────────────────────────────

type stubPriceRepo struct {
	records map[uuid.UUID]*model.PriceRecord
}

func newStubPriceRepo() *stubPriceRepo {
	return &stubPriceRepo{records: make(map[uuid.UUID]*model.PriceRecord)}
}

func (r *stubPriceRepo) Create(_ context.Context, p *model.PriceRecord) error {
	for _, existing := range r.records {
		if existing.ItemID == p.ItemID && existing.EffectiveDate.Equal(p.EffectiveDate) {
			return repository.ErrPriceConflict
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.records[p.ID] = p
	return nil
}

func (r *stubPriceRepo) FindEffective(_ context.Context, itemID uuid.UUID, asOf time.Time) (*model.PriceRecord, error) {
	var best *model.PriceRecord
	for _, rec := range r.records {
		if rec.ItemID != itemID || rec.EffectiveDate.After(asOf) {
			continue
		}
		switch {
		case best == nil,
			rec.EffectiveDate.After(best.EffectiveDate):
			best = rec
		case rec.EffectiveDate.Equal(best.EffectiveDate):
			// Same ordering as the real repository: created_at DESC, id ASC.
			if rec.CreatedAt.After(best.CreatedAt) ||
				(rec.CreatedAt.Equal(best.CreatedAt) && rec.ID.String() < best.ID.String()) {
				best = rec
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubPriceRepo) ListByItem(_ context.Context, itemID uuid.UUID, page, limit int) ([]model.PriceRecord, int64, error) {
	var rows []model.PriceRecord
	for _, rec := range r.records {
		if rec.ItemID == itemID {
			rows = append(rows, *rec)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].EffectiveDate.After(rows[j].EffectiveDate)
	})
	total := int64(len(rows))
	start := (page - 1) * limit
	if start > len(rows) {
		start = len(rows)
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total, nil
}

func (r *stubPriceRepo) FindDuplicateKeys(_ context.Context) ([]repository.DuplicateKey, error) {
	counts := make(map[repository.DuplicateKey]int)
	for _, rec := range r.records {
		counts[repository.DuplicateKey{ItemID: rec.ItemID, EffectiveDate: rec.EffectiveDate}]++
	}
	var keys []repository.DuplicateKey
	for k, n := range counts {
		if n > 1 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemID != keys[j].ItemID {
			return keys[i].ItemID.String() < keys[j].ItemID.String()
		}
		return keys[i].EffectiveDate.Before(keys[j].EffectiveDate)
	})
	return keys, nil
}

func (r *stubPriceRepo) FindByItemAndDate(_ context.Context, itemID uuid.UUID, date time.Time) ([]model.PriceRecord, error) {
	var rows []model.PriceRecord
	for _, rec := range r.records {
		if rec.ItemID == itemID && rec.EffectiveDate.Equal(date) {
			rows = append(rows, *rec)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows, nil
}

func (r *stubPriceRepo) DeleteByIDsTx(_ *gorm.DB, ids []uuid.UUID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.records[id]; ok {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *stubPriceRepo) DB() *gorm.DB { return nil }

var _ repository.PriceRepository = (*stubPriceRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedItem(repo *stubItemRepo, code, name string) *model.Item {
	item := &model.Item{
		ID:            uuid.New(),
		Code:          code,
		Name:          name,
		Category:      "components",
		UnitOfMeasure: "unit",
		Active:        true,
	}
	repo.items[item.ID] = item
	return item
}

func seedEdge(repo *stubItemRepo, parent, child *model.Item, qty int64) {
	repo.edges[parent.ID] = append(repo.edges[parent.ID], model.BOMEdge{
		ID:               uuid.New(),
		ParentItemID:     parent.ID,
		ChildItemID:      child.ID,
		QuantityRequired: decimal.NewFromInt(qty),
		Active:           true,
	})
}

func seedPrice(repo *stubPriceRepo, item *model.Item, date string, price float64, createdAt time.Time) *model.PriceRecord {
	d, _ := time.Parse("2006-01-02", date)
	rec := &model.PriceRecord{
		ID:            uuid.New(),
		ItemID:        item.ID,
		EffectiveDate: d,
		UnitPrice:     decimal.NewFromFloat(price),
		PriceType:     model.PriceTypeManual,
		CreatedAt:     createdAt,
	}
	repo.records[rec.ID] = rec
	return rec
}

// seedDuplicate inserts a record bypassing the stub's uniqueness check, the
// way data predating the constraint (or a lost race) would have landed.
func seedDuplicate(repo *stubPriceRepo, item *model.Item, date string, price float64, createdAt time.Time) *model.PriceRecord {
	return seedPrice(repo, item, date, price, createdAt)
}
