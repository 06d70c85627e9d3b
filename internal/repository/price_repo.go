package repository

import (
	"context"
	"errors"
	"time"

	"pricemaster/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrPriceConflict is returned by Create when the UNIQUE (item_id,
// effective_date) constraint rejects the insert. Callers map it to the
// CONSTRAINT_CONFLICT taxonomy entry rather than a generic store fault.
var ErrPriceConflict = errors.New("price record already exists for item and effective date")

// DuplicateKey identifies one (item, effective date) pair holding more than
// one price record.
type DuplicateKey struct {
	ItemID        uuid.UUID
	EffectiveDate time.Time
}

// PriceRepository is the data access contract for the price store.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type PriceRepository interface {
	Create(ctx context.Context, p *model.PriceRecord) error
	// FindEffective returns the most recent record with effective_date <= asOf
	// (an exact match is naturally the maximum). gorm.ErrRecordNotFound means
	// the item has no applicable price.
	FindEffective(ctx context.Context, itemID uuid.UUID, asOf time.Time) (*model.PriceRecord, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, page, limit int) ([]model.PriceRecord, int64, error)
	// FindDuplicateKeys returns every (item_id, effective_date) pair that the
	// uniqueness invariant says should not occur more than once but does.
	FindDuplicateKeys(ctx context.Context) ([]DuplicateKey, error)
	// FindByItemAndDate returns all records of one duplicate group, oldest first.
	FindByItemAndDate(ctx context.Context, itemID uuid.UUID, date time.Time) ([]model.PriceRecord, error)

	// DeleteByIDsTx removes records inside a caller-held transaction and
	// reports the number of rows actually deleted.
	DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type priceRepo struct{ db *gorm.DB }

func NewPriceRepository(db *gorm.DB) PriceRepository { return &priceRepo{db: db} }

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *priceRepo) Create(ctx context.Context, p *model.PriceRecord) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPriceConflict
		}
		return err
	}
	return nil
}

func (r *priceRepo) FindEffective(ctx context.Context, itemID uuid.UUID, asOf time.Time) (*model.PriceRecord, error) {
	var rec model.PriceRecord
	// Tie-breakers matter when pre-constraint duplicates share the winning
	// date: the newest record wins and the pick stays deterministic.
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND effective_date <= ?", itemID, asOf).
		Order("effective_date DESC, created_at DESC, id").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *priceRepo) ListByItem(ctx context.Context, itemID uuid.UUID, page, limit int) ([]model.PriceRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.PriceRecord{}).
		Where("item_id = ?", itemID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.PriceRecord
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("effective_date DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *priceRepo) FindDuplicateKeys(ctx context.Context) ([]DuplicateKey, error) {
	var keys []DuplicateKey
	err := r.db.WithContext(ctx).
		Model(&model.PriceRecord{}).
		Select("item_id, effective_date").
		Group("item_id, effective_date").
		Having("COUNT(*) > 1").
		Order("item_id, effective_date").
		Scan(&keys).Error
	return keys, err
}

func (r *priceRepo) FindByItemAndDate(ctx context.Context, itemID uuid.UUID, date time.Time) ([]model.PriceRecord, error) {
	var rows []model.PriceRecord
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND effective_date = ?", itemID, date).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *priceRepo) DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Where("id IN ?", ids).Delete(&model.PriceRecord{})
	return res.RowsAffected, res.Error
}

func (r *priceRepo) DB() *gorm.DB { return r.db }
