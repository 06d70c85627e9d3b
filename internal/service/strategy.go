package service

import (
	"pricemaster/internal/apierror"
	"pricemaster/internal/dto"
	"pricemaster/internal/model"

	"github.com/google/uuid"
)

// Strategy decides which records of a duplicate group survive cleanup.
// One contract, three implementations — call sites never branch on the name.
type Strategy interface {
	Name() string
	SelectRetained(group DuplicateGroup) map[uuid.UUID]bool
}

// newStrategy resolves and validates the requested strategy before any group
// is evaluated. An empty keep set under "custom" is a StrategyError here, not
// later.
func newStrategy(name string, customKeepIDs []string) (Strategy, error) {
	switch name {
	case dto.StrategyKeepLatest:
		return keepLatest{}, nil
	case dto.StrategyKeepOldest:
		return keepOldest{}, nil
	case dto.StrategyCustom:
		if len(customKeepIDs) == 0 {
			return nil, apierror.Strategy("custom strategy requires a non-empty custom_keep_ids set")
		}
		keep := make(map[uuid.UUID]bool, len(customKeepIDs))
		for _, raw := range customKeepIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, apierror.Strategy("custom_keep_ids contains an invalid UUID: %q", raw)
			}
			keep[id] = true
		}
		return customKeep{keep: keep}, nil
	default:
		return nil, apierror.Strategy("unknown strategy %q (expected keep_latest, keep_oldest or custom)", name)
	}
}

// ─── keep_latest ──────────────────────────────────────────────────────────────

type keepLatest struct{}

func (keepLatest) Name() string { return dto.StrategyKeepLatest }

func (keepLatest) SelectRetained(group DuplicateGroup) map[uuid.UUID]bool {
	return map[uuid.UUID]bool{pickByCreation(group.Records, true).ID: true}
}

// ─── keep_oldest ──────────────────────────────────────────────────────────────

type keepOldest struct{}

func (keepOldest) Name() string { return dto.StrategyKeepOldest }

func (keepOldest) SelectRetained(group DuplicateGroup) map[uuid.UUID]bool {
	return map[uuid.UUID]bool{pickByCreation(group.Records, false).ID: true}
}

// pickByCreation returns the record with the greatest (latest=true) or
// smallest creation timestamp, tie-breaking on id so the choice is stable.
func pickByCreation(records []model.PriceRecord, latest bool) *model.PriceRecord {
	pick := &records[0]
	for i := 1; i < len(records); i++ {
		r := &records[i]
		switch {
		case latest && r.CreatedAt.After(pick.CreatedAt):
			pick = r
		case !latest && r.CreatedAt.Before(pick.CreatedAt):
			pick = r
		case r.CreatedAt.Equal(pick.CreatedAt):
			if (latest && r.ID.String() > pick.ID.String()) ||
				(!latest && r.ID.String() < pick.ID.String()) {
				pick = r
			}
		}
	}
	return pick
}

// ─── custom ───────────────────────────────────────────────────────────────────

// customKeep retains exactly the caller-supplied ids across all groups.
// Group members outside the set are deleted, even if that empties the group.
type customKeep struct {
	keep map[uuid.UUID]bool
}

func (customKeep) Name() string { return dto.StrategyCustom }

func (c customKeep) SelectRetained(group DuplicateGroup) map[uuid.UUID]bool {
	retained := make(map[uuid.UUID]bool)
	for _, r := range group.Records {
		if c.keep[r.ID] {
			retained[r.ID] = true
		}
	}
	return retained
}
