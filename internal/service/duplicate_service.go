package service

import (
	"context"
	"fmt"
	"time"

	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"
	"pricemaster/internal/model"
	"pricemaster/internal/repository"

	"github.com/google/uuid"
)

// DuplicateGroup is one set of price records sharing (item_id, effective_date).
// Records are ordered oldest-created first.
type DuplicateGroup struct {
	ItemID        uuid.UUID
	EffectiveDate time.Time
	Records       []model.PriceRecord
}

// DuplicateService audits the price store for records violating the
// one-record-per-(item, date) invariant. With the store's uniqueness
// constraint functioning, the scan is empty in steady state — it exists for
// migration audits and race forensics, not the hot path.
type DuplicateService interface {
	Scan(ctx context.Context) (*dto.DuplicateScanResponse, error)
	// CollectGroups feeds the cleanup executor with raw model groups.
	CollectGroups(ctx context.Context) ([]DuplicateGroup, error)
}

type duplicateService struct {
	prices repository.PriceRepository
}

func NewDuplicateService(prices repository.PriceRepository) DuplicateService {
	return &duplicateService{prices: prices}
}

func (s *duplicateService) CollectGroups(ctx context.Context) ([]DuplicateGroup, error) {
	keys, err := s.prices.FindDuplicateKeys(ctx)
	if err != nil {
		return nil, apierror.Store(err)
	}

	groups := make([]DuplicateGroup, 0, len(keys))
	for _, k := range keys {
		records, err := s.prices.FindByItemAndDate(ctx, k.ItemID, k.EffectiveDate)
		if err != nil {
			return nil, apierror.Store(err)
		}
		if len(records) < 2 {
			// Resolved between the key query and the fetch; not a duplicate anymore.
			continue
		}
		groups = append(groups, DuplicateGroup{
			ItemID:        k.ItemID,
			EffectiveDate: k.EffectiveDate,
			Records:       records,
		})
	}
	return groups, nil
}

func (s *duplicateService) Scan(ctx context.Context) (*dto.DuplicateScanResponse, error) {
	groups, err := s.CollectGroups(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DuplicateScanResponse{
		Success:         true,
		TotalDuplicates: len(groups),
		DuplicateGroups: make([]dto.DuplicateGroupDTO, 0, len(groups)),
		Summary: dto.DuplicateSummary{
			ByItem: make(map[string]int),
			ByDate: make(map[string]int),
		},
	}

	for _, g := range groups {
		date := g.EffectiveDate.Format(effectiveDateLayout)
		groupDTO := dto.DuplicateGroupDTO{
			ItemID:        g.ItemID.String(),
			EffectiveDate: date,
			Records:       make([]dto.PriceRecordDTO, 0, len(g.Records)),
		}
		for _, r := range g.Records {
			groupDTO.Records = append(groupDTO.Records, priceToDTO(&r))
		}
		resp.DuplicateGroups = append(resp.DuplicateGroups, groupDTO)
		resp.Summary.ByItem[g.ItemID.String()] += len(g.Records)
		resp.Summary.ByDate[date] += len(g.Records)
		resp.Summary.TotalRecords += len(g.Records)
	}

	if len(groups) == 0 {
		resp.Message = "no duplicate price records found"
	} else {
		resp.Message = fmt.Sprintf("found %d duplicate group(s) spanning %d records",
			len(groups), resp.Summary.TotalRecords)
	}
	return resp, nil
}

func priceToDTO(r *model.PriceRecord) dto.PriceRecordDTO {
	return dto.PriceRecordDTO{
		PriceID:       r.ID.String(),
		ItemID:        r.ItemID.String(),
		EffectiveDate: r.EffectiveDate.Format(effectiveDateLayout),
		UnitPrice:     r.UnitPrice,
		PriceType:     r.PriceType,
		IsCurrent:     r.IsCurrent,
		CreatedAt:     r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
