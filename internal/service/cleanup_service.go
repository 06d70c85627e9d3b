package service

import (
	"context"
	"fmt"

	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"
	"pricemaster/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CleanupService consumes detector output and applies a resolution strategy.
// Dry runs return the identical plan a real run would execute; real runs
// delete the whole plan as one transactional unit.
type CleanupService interface {
	Cleanup(ctx context.Context, req dto.CleanupRequest) (*dto.CleanupResponse, error)
}

type cleanupService struct {
	detector DuplicateService
	prices   repository.PriceRepository
}

func NewCleanupService(detector DuplicateService, prices repository.PriceRepository) CleanupService {
	return &cleanupService{detector: detector, prices: prices}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *cleanupService) Cleanup(ctx context.Context, req dto.CleanupRequest) (*dto.CleanupResponse, error) {
	logState("duplicate_cleanup", stateReceived)

	strategy, err := newStrategy(req.Strategy, req.CustomKeepIDs)
	if err != nil {
		logState("duplicate_cleanup", stateRejected)
		return nil, err
	}
	logState("duplicate_cleanup", stateValidated)

	groups, err := s.detector.CollectGroups(ctx)
	if err != nil {
		return nil, err
	}

	// Plan before touching anything: partition every group into retained and
	// deleted records. Groups are already ordered, so the plan is stable for
	// a fixed store state.
	preview := make([]dto.CleanupAction, 0)
	deleteIDs := make([]uuid.UUID, 0)
	for _, g := range groups {
		retained := strategy.SelectRetained(g)
		for _, r := range g.Records {
			if retained[r.ID] {
				preview = append(preview, dto.CleanupAction{PriceID: r.ID.String(), Action: dto.ActionKeep})
			} else {
				preview = append(preview, dto.CleanupAction{PriceID: r.ID.String(), Action: dto.ActionDelete})
				deleteIDs = append(deleteIDs, r.ID)
			}
		}
	}
	logState("duplicate_cleanup", statePlanned)

	resp := &dto.CleanupResponse{
		Success: true,
		DryRun:  req.DryRun,
		Preview: preview,
	}

	if len(groups) == 0 {
		resp.Message = "no duplicate groups to clean up"
		if req.DryRun {
			logState("duplicate_cleanup", statePreviewed)
		} else {
			logState("duplicate_cleanup", stateDone)
		}
		return resp, nil
	}

	if req.DryRun {
		resp.DeletedCount = len(deleteIDs)
		resp.Message = fmt.Sprintf("dry run: %d record(s) would be deleted across %d group(s) — nothing was written",
			len(deleteIDs), len(groups))
		logState("duplicate_cleanup", statePreviewed)
		return resp, nil
	}

	var deleted int64
	txErr := runTx(ctx, s.prices.DB(), func(tx *gorm.DB) error {
		n, err := s.prices.DeleteByIDsTx(tx, deleteIDs)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if txErr != nil {
		// The transaction rolled back: the store is in its pre-operation
		// state and the whole call can be retried as-is.
		return nil, apierror.Store(txErr)
	}
	logState("duplicate_cleanup", stateCommitted)

	resp.DeletedCount = int(deleted)
	resp.Message = fmt.Sprintf("deleted %d record(s) across %d group(s)", deleted, len(groups))
	logState("duplicate_cleanup", stateDone)
	return resp, nil
}
