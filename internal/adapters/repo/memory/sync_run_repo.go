package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phenrril/possync/internal/domain"
)

// SyncRunRepo keeps the most recent runs per task in memory.
type SyncRunRepo struct {
	mu   sync.Mutex
	runs []domain.SyncRun
	keep int
}

func NewSyncRunRepo(keep int) *SyncRunRepo {
	if keep <= 0 {
		keep = 200
	}
	return &SyncRunRepo{keep: keep}
}

func (r *SyncRunRepo) Save(ctx context.Context, run *domain.SyncRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	if len(r.runs) > r.keep {
		r.runs = r.runs[len(r.runs)-r.keep:]
	}
	return nil
}

// ListRecent returns newest first. An empty task lists every task.
func (r *SyncRunRepo) ListRecent(ctx context.Context, task string, limit int) ([]domain.SyncRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SyncRun{}
	for _, run := range r.runs {
		if task == "" || run.Task == task {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
