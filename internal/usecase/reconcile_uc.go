package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/possync/internal/domain"
)

const (
	DefaultSyncPageSize = 50
	keepRunsPerTask     = 500
)

// ReconcileUC pulls the newest page of remote orders and customers and
// mirrors them. It is a tail sync: older records are never revisited.
type ReconcileUC struct {
	Orders    domain.OrderAPI
	Customers domain.CustomerAPI
	Sync      *SyncUC
	Runs      domain.SyncRunRepo
	PageSize  int
	Now       domain.Clock
}

func (uc *ReconcileUC) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}

func (uc *ReconcileUC) pageSize() int {
	if uc.PageSize <= 0 {
		return DefaultSyncPageSize
	}
	return uc.PageSize
}

// SyncOrders mirrors the POS orders among the newest remote orders, one at a
// time. A failing order is counted and logged; only the page fetch aborts the run.
func (uc *ReconcileUC) SyncOrders(ctx context.Context) (domain.SyncRun, error) {
	run := uc.start(domain.TaskOrderSync)
	page, err := uc.Orders.ListOrders(ctx, domain.ListQuery{Page: 1, PerPage: uc.pageSize(), OrderBy: "date", Order: "desc"})
	if err != nil {
		return uc.finish(ctx, run, fmt.Errorf("fetch orders: %w", err))
	}
	run.Fetched = len(page.Items)
	for _, o := range page.Items {
		if !IsPOSOrder(o) {
			run.Skipped++
			continue
		}
		rec := NormalizeOrder(o, true)
		res, err := uc.Sync.UpsertOrder(ctx, *rec)
		if err != nil {
			log.Warn().Err(err).Int64("woo_order_id", o.ID).Msg("order skipped by validation")
		}
		uc.count(&run, res, err)
	}
	return uc.finish(ctx, run, nil)
}

// SyncCustomers mirrors every customer of the newest registration page.
func (uc *ReconcileUC) SyncCustomers(ctx context.Context) (domain.SyncRun, error) {
	run := uc.start(domain.TaskCustomerSync)
	page, err := uc.Customers.ListCustomers(ctx, domain.ListQuery{Page: 1, PerPage: uc.pageSize(), OrderBy: "registered_date", Order: "desc"})
	if err != nil {
		return uc.finish(ctx, run, fmt.Errorf("fetch customers: %w", err))
	}
	run.Fetched = len(page.Items)
	for _, c := range page.Items {
		rec := NormalizeCustomer(c, uc.now())
		_, res, err := uc.Sync.UpsertCustomer(ctx, rec)
		if err != nil {
			log.Warn().Err(err).Int64("woo_customer_id", c.ID).Msg("customer skipped by validation")
		}
		uc.count(&run, res, err)
	}
	return uc.finish(ctx, run, nil)
}

// Recent lists journal entries, newest first.
func (uc *ReconcileUC) Recent(ctx context.Context, task string, limit int) ([]domain.SyncRun, error) {
	if uc.Runs == nil {
		return []domain.SyncRun{}, nil
	}
	return uc.Runs.ListRecent(ctx, task, limit)
}

func (uc *ReconcileUC) start(task string) domain.SyncRun {
	return domain.SyncRun{ID: uuid.New(), Task: task, StartedAt: uc.now().UTC()}
}

func (uc *ReconcileUC) count(run *domain.SyncRun, res UpsertResult, err error) {
	switch {
	case err != nil || !res.OK:
		run.Errored++
	case res.Action == ActionCreated:
		run.Created++
	default:
		run.Updated++
	}
}

func (uc *ReconcileUC) finish(ctx context.Context, run domain.SyncRun, runErr error) (domain.SyncRun, error) {
	run.FinishedAt = uc.now().UTC()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	ev := log.Info()
	if runErr != nil || run.Errored > 0 {
		ev = log.Warn().AnErr("run_error", runErr)
	}
	ev.Str("task", run.Task).
		Int("fetched", run.Fetched).
		Int("skipped", run.Skipped).
		Int("created", run.Created).
		Int("updated", run.Updated).
		Int("errored", run.Errored).
		Dur("took", run.FinishedAt.Sub(run.StartedAt)).
		Msg("sync run finished")

	if uc.Runs != nil {
		if err := uc.Runs.Save(ctx, &run); err != nil {
			log.Error().Err(err).Str("task", run.Task).Msg("failed to save sync run")
		}
		if p, ok := uc.Runs.(interface {
			Prune(context.Context, int) error
		}); ok {
			if err := p.Prune(ctx, keepRunsPerTask); err != nil {
				log.Error().Err(err).Msg("failed to prune sync runs")
			}
		}
	}
	return run, runErr
}
