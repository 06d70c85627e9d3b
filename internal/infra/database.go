package infra

import (
	"fmt"

	"pricemaster/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the engine's tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes enforcing business invariants).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the schema. The UNIQUE (item_id,
// effective_date) index on price_records comes from the model tags and is the
// constraint the whole engine leans on — conflict detection, duplicate
// auditing and batch apply all assume it exists.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Item{},
		&model.BOMEdge{},
		&model.PriceRecord{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle
// on its own. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one "current" record per item — a partial unique index,
		// which GORM tags cannot express.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_price_records_one_current') THEN
		    CREATE UNIQUE INDEX idx_price_records_one_current
		        ON price_records (item_id)
		        WHERE is_current;
		  END IF;
		END $$`,
		// Self-referential BOM edges are invalid at the edge level; the graph
		// level is verified at traversal time.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_bom_edges_no_self_loop') THEN
		    ALTER TABLE bom_edges
		        ADD CONSTRAINT chk_bom_edges_no_self_loop
		        CHECK (parent_item_id <> child_item_id);
		  END IF;
		END $$`,
		// Covering index for the effective-price lookup, the hottest query of
		// the BOM resolver.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_price_records_item_effective_desc') THEN
		    CREATE INDEX idx_price_records_item_effective_desc
		        ON price_records (item_id, effective_date DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
