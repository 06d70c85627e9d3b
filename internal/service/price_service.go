package service

import (
	"context"
	"errors"
	"time"

	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"
	"pricemaster/internal/model"
	"pricemaster/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceService covers manual single-record entry and the read-only audit view
// of an item's price history.
type PriceService interface {
	Create(ctx context.Context, req dto.CreatePriceRequest) (*dto.PriceResponse, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, filter dto.PriceListFilter) (*dto.PriceListResponse, error)
}

type priceService struct {
	items  repository.ItemRepository
	prices repository.PriceRepository
}

func NewPriceService(items repository.ItemRepository, prices repository.PriceRepository) PriceService {
	return &priceService{items: items, prices: prices}
}

func (s *priceService) Create(ctx context.Context, req dto.CreatePriceRequest) (*dto.PriceResponse, error) {
	logState("manual_price", stateReceived)

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		logState("manual_price", stateRejected)
		return nil, apierror.Validation("item_id is not a valid UUID")
	}
	effectiveDate, err := time.Parse(effectiveDateLayout, req.EffectiveDate)
	if err != nil {
		logState("manual_price", stateRejected)
		return nil, apierror.Validation("effective_date must be formatted %s", effectiveDateLayout)
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logState("manual_price", stateRejected)
			return nil, apierror.NotFound("item %s not found", req.ItemID)
		}
		return nil, apierror.Store(err)
	}
	logState("manual_price", stateValidated)

	rec := &model.PriceRecord{
		ItemID:        itemID,
		EffectiveDate: effectiveDate,
		UnitPrice:     req.UnitPrice,
		PriceType:     priceTypeOrDefault(req.PriceType),
		IsCurrent:     req.IsCurrent,
	}
	if err := s.prices.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrPriceConflict) {
			return nil, apierror.ConstraintConflict(
				"a price already exists for item %s effective %s", req.ItemID, req.EffectiveDate)
		}
		return nil, apierror.Store(err)
	}
	logState("manual_price", stateCommitted)
	logState("manual_price", stateDone)

	return &dto.PriceResponse{
		Success: true,
		Message: "price record created",
		Data:    priceToDTO(rec),
	}, nil
}

func (s *priceService) ListByItem(ctx context.Context, itemID uuid.UUID, filter dto.PriceListFilter) (*dto.PriceListResponse, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("item %s not found", itemID)
		}
		return nil, apierror.Store(err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	rows, total, err := s.prices.ListByItem(ctx, itemID, filter.Page, filter.Limit)
	if err != nil {
		return nil, apierror.Store(err)
	}

	data := make([]dto.PriceRecordDTO, 0, len(rows))
	for _, r := range rows {
		data = append(data, priceToDTO(&r))
	}
	return &dto.PriceListResponse{
		Success: true,
		Message: "price records listed",
		Data:    data,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}, nil
}
