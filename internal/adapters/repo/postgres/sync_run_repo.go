package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/possync/internal/domain"
)

const createRunsIndex = "CREATE INDEX IF NOT EXISTS idx_sync_runs_task_started ON sync_runs (task, started_at DESC)"

type SyncRunRepo struct{ db *gorm.DB }

func NewSyncRunRepo(db *gorm.DB) *SyncRunRepo { return &SyncRunRepo{db: db} }

// Migrate creates the journal table and its lookup index.
func (r *SyncRunRepo) Migrate() error {
	if err := r.db.AutoMigrate(&domain.SyncRun{}); err != nil {
		return err
	}
	if err := r.db.Exec(createRunsIndex).Error; err != nil {
		return fmt.Errorf("create sync_runs index: %w", err)
	}
	return nil
}

func (r *SyncRunRepo) Save(ctx context.Context, run *domain.SyncRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(run).Error
}

// ListRecent returns newest first. An empty task lists every task.
func (r *SyncRunRepo) ListRecent(ctx context.Context, task string, limit int) ([]domain.SyncRun, error) {
	q := r.db.WithContext(ctx).Order("started_at desc")
	if task != "" {
		q = q.Where("task = ?", task)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []domain.SyncRun
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Prune drops runs beyond the newest keep entries of each task.
func (r *SyncRunRepo) Prune(ctx context.Context, keep int) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM sync_runs WHERE id IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY task ORDER BY started_at DESC) AS rn FROM sync_runs
		) ranked WHERE rn > ?
	)`, keep).Error
}
