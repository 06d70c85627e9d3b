package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"
	"pricemaster/internal/model"
	"pricemaster/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportService validates and optionally commits batched price imports.
type ImportService interface {
	ImportPrices(ctx context.Context, req dto.BatchImportRequest) (*dto.BatchImportResponse, error)
}

type importService struct {
	items   repository.ItemRepository
	prices  repository.PriceRepository
	maxRows int
}

func NewImportService(items repository.ItemRepository, prices repository.PriceRepository, maxRows int) ImportService {
	return &importService{items: items, prices: prices, maxRows: maxRows}
}

// rowOutcome is the per-row tagged result threaded through validation and
// persistence: either valid (normalized fields set) or invalid (errs set).
type rowOutcome struct {
	index         int // 1-based
	valid         bool
	itemID        uuid.UUID
	itemCode      string
	effectiveDate time.Time
	row           dto.ImportRow
	errs          []dto.RowError
}

func (o *rowOutcome) fail(field, message string) {
	o.valid = false
	o.errs = append(o.errs, dto.RowError{RowIndex: o.index, Field: field, Message: message})
}

func (s *importService) ImportPrices(ctx context.Context, req dto.BatchImportRequest) (*dto.BatchImportResponse, error) {
	logState("batch_import", stateReceived)

	// Oversized batches are rejected wholesale before any per-row work.
	if len(req.Items) > s.maxRows {
		logState("batch_import", stateRejected)
		return nil, apierror.Validation("batch of %d rows exceeds the limit of %d", len(req.Items), s.maxRows)
	}
	logState("batch_import", stateValidated)

	outcomes := make([]rowOutcome, 0, len(req.Items))
	for i, row := range req.Items {
		o, err := s.validateRow(ctx, i+1, row)
		if err != nil {
			// A persistence fault during validation is not a property of the
			// row; the whole call fails as retryable.
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	logState("batch_import", statePlanned)

	resp := &dto.BatchImportResponse{
		Success: true,
		Errors:  []dto.RowError{},
		Preview: []dto.PreviewRow{},
	}

	if req.ValidateOnly {
		for i := range outcomes {
			o := &outcomes[i]
			if o.valid {
				resp.ValidCount++
				resp.Preview = append(resp.Preview, previewFor(o, dto.RowStatusValid))
			} else {
				resp.ErrorCount++
				resp.Errors = append(resp.Errors, o.errs...)
			}
		}
		resp.Message = fmt.Sprintf("validated %d rows: %d valid, %d with errors — nothing was written",
			len(req.Items), resp.ValidCount, resp.ErrorCount)
		logState("batch_import", statePreviewed)
		return resp, nil
	}

	// Apply mode: persist only the rows that passed validation. A uniqueness
	// race at write time downgrades that row to a row-level error; the rest
	// of the batch is unaffected.
	for i := range outcomes {
		o := &outcomes[i]
		if !o.valid {
			resp.ErrorCount++
			resp.Errors = append(resp.Errors, o.errs...)
			continue
		}

		rec := &model.PriceRecord{
			ItemID:        o.itemID,
			EffectiveDate: o.effectiveDate,
			UnitPrice:     o.row.UnitPrice,
			PriceType:     priceTypeOrDefault(o.row.PriceType),
		}
		err := s.prices.Create(ctx, rec)
		switch {
		case err == nil:
			resp.ValidCount++
			resp.Preview = append(resp.Preview, previewFor(o, dto.RowStatusCreated))
		case errors.Is(err, repository.ErrPriceConflict):
			o.fail("effective_date", "a price already exists for this item and effective date")
			resp.ErrorCount++
			resp.Errors = append(resp.Errors, o.errs...)
			resp.Preview = append(resp.Preview, previewFor(o, dto.RowStatusConflict))
		default:
			// A hard store fault aborts the call. Rows already committed stay
			// committed; a whole-batch retry is safe because re-inserting them
			// surfaces as ordinary row-level conflicts.
			return nil, apierror.Store(err)
		}
	}
	logState("batch_import", stateCommitted)

	resp.Message = fmt.Sprintf("imported %d of %d rows, %d with errors",
		resp.ValidCount, len(req.Items), resp.ErrorCount)
	logState("batch_import", stateDone)
	return resp, nil
}

// validateRow runs every field check for one row, independent of all others.
// Only row properties become row errors; a store fault is returned instead.
func (s *importService) validateRow(ctx context.Context, index int, row dto.ImportRow) (rowOutcome, error) {
	o := rowOutcome{index: index, valid: true, itemCode: row.ItemCode, row: row}

	if row.ItemCode == "" {
		o.fail("item_code", "item_code is required")
	} else {
		item, err := s.items.FindByCode(ctx, row.ItemCode)
		switch {
		case err == nil:
			o.itemID = item.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			o.fail("item_code", fmt.Sprintf("no active item with code %q", row.ItemCode))
		default:
			return o, apierror.Store(err)
		}
	}

	if !row.UnitPrice.IsPositive() {
		o.fail("unit_price", "unit_price must be a positive number")
	}

	if row.EffectiveDate == "" {
		o.fail("effective_date", "effective_date is required")
	} else if d, err := time.Parse(effectiveDateLayout, row.EffectiveDate); err != nil {
		o.fail("effective_date", fmt.Sprintf("effective_date must be formatted %s", effectiveDateLayout))
	} else {
		o.effectiveDate = d
	}

	if pt := row.PriceType; pt != "" &&
		pt != model.PriceTypeManual && pt != model.PriceTypePurchase && pt != model.PriceTypeProduction {
		o.fail("price_type", "price_type must be one of manual, purchase, production")
	}

	return o, nil
}

func previewFor(o *rowOutcome, status string) dto.PreviewRow {
	return dto.PreviewRow{
		RowIndex:      o.index,
		ItemID:        o.itemID.String(),
		ItemCode:      o.itemCode,
		UnitPrice:     o.row.UnitPrice,
		EffectiveDate: o.row.EffectiveDate,
		PriceType:     priceTypeOrDefault(o.row.PriceType),
		Status:        status,
	}
}

func priceTypeOrDefault(pt string) string {
	if pt == "" {
		return model.PriceTypeManual
	}
	return pt
}
