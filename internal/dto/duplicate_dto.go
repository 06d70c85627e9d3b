package dto

// ─── Duplicate scan ──────────────────────────────────────────────────────────

type DuplicateGroupDTO struct {
	ItemID        string           `json:"item_id"`
	EffectiveDate string           `json:"effective_date"`
	Records       []PriceRecordDTO `json:"records"`
}

type DuplicateSummary struct {
	ByItem       map[string]int `json:"by_item"`
	ByDate       map[string]int `json:"by_date"`
	TotalRecords int            `json:"total_records"`
}

type DuplicateScanResponse struct {
	Success         bool                `json:"success"`
	Message         string              `json:"message"`
	TotalDuplicates int                 `json:"total_duplicates"`
	DuplicateGroups []DuplicateGroupDTO `json:"duplicate_groups"`
	Summary         DuplicateSummary    `json:"summary"`
}

// ─── Cleanup ─────────────────────────────────────────────────────────────────

// Cleanup strategy names accepted by the executor.
const (
	StrategyKeepLatest = "keep_latest"
	StrategyKeepOldest = "keep_oldest"
	StrategyCustom     = "custom"
)

type CleanupRequest struct {
	Strategy      string   `json:"strategy"        validate:"required"`
	CustomKeepIDs []string `json:"custom_keep_ids"`
	DryRun        bool     `json:"dry_run"`
}

// Plan actions per record.
const (
	ActionKeep   = "keep"
	ActionDelete = "delete"
)

type CleanupAction struct {
	PriceID string `json:"price_id"`
	Action  string `json:"action"`
}

type CleanupResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	DryRun       bool            `json:"dry_run"`
	DeletedCount int             `json:"deleted_count"`
	Preview      []CleanupAction `json:"preview"`
}
