package app

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/possync/internal/adapters/baserow"
	"github.com/phenrril/possync/internal/adapters/cache"
	"github.com/phenrril/possync/internal/adapters/httpclient"
	"github.com/phenrril/possync/internal/adapters/httpserver"
	"github.com/phenrril/possync/internal/adapters/repo/memory"
	"github.com/phenrril/possync/internal/adapters/repo/postgres"
	"github.com/phenrril/possync/internal/adapters/woocommerce"
	"github.com/phenrril/possync/internal/config"
	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/scheduler"
	"github.com/phenrril/possync/internal/usecase"
)

const memoryRunsKept = 200

type App struct {
	Config config.Config
	DB     *gorm.DB

	SyncUC      *usecase.SyncUC
	OrderUC     *usecase.OrderUC
	CustomerUC  *usecase.CustomerUC
	CatalogUC   *usecase.CatalogUC
	CouponUC    *usecase.CouponUC
	ReportUC    *usecase.ReportUC
	FMSUC       *usecase.FMSUC
	ReconcileUC *usecase.ReconcileUC

	Auth      *httpserver.Auth
	Scheduler *scheduler.Scheduler
}

// NewApp wires the remote clients, the mirror and the use cases. db may be
// nil, in which case the sync journal is kept in memory.
func NewApp(cfg config.Config, db *gorm.DB) (*App, error) {
	wooHTTP := httpclient.New(httpclient.Options{
		Name:    "woocommerce",
		Timeout: cfg.Woo.Timeout,
		Retries: cfg.Retry.Max,
		WaitMin: cfg.Retry.WaitMin,
		WaitMax: cfg.Retry.WaitMax,
	})
	woo := woocommerce.NewClient(cfg.Woo.BaseURL, cfg.Woo.ConsumerKey, cfg.Woo.ConsumerSecret, wooHTTP)

	orders, customers := mirrorTables(cfg)

	var runs domain.SyncRunRepo = memory.NewSyncRunRepo(memoryRunsKept)
	if db != nil {
		repo := postgres.NewSyncRunRepo(db)
		if err := repo.Migrate(); err != nil {
			return nil, err
		}
		runs = repo
	}

	a := &App{Config: cfg, DB: db}
	a.SyncUC = usecase.NewSyncUC(orders, customers)
	a.OrderUC = usecase.NewOrderUC(woo, orders, a.SyncUC)
	a.CustomerUC = usecase.NewCustomerUC(woo, customers, a.SyncUC, cfg.WalkInEmailDomain)
	a.CatalogUC = &usecase.CatalogUC{
		Catalog:    woo,
		Categories: cache.NewTTL[string, []domain.Category](1, cfg.Cache.CategoriesTTL),
		Variations: cache.NewTTL[int64, []domain.Variation](cfg.Cache.Size, cfg.Cache.VariationsTTL),
	}
	a.CouponUC = usecase.NewCouponUC(woo)
	a.ReportUC = &usecase.ReportUC{Reports: woo, Orders: orders}
	a.FMSUC = &usecase.FMSUC{Orders: woo, PageSize: cfg.Sync.PageSize}
	a.ReconcileUC = &usecase.ReconcileUC{
		Orders:    woo,
		Customers: woo,
		Sync:      a.SyncUC,
		Runs:      runs,
		PageSize:  cfg.Sync.PageSize,
	}
	a.Auth = httpserver.NewAuth(httpserver.AuthConfig{
		Username:     cfg.Auth.Username,
		PasswordHash: cfg.Auth.PasswordHash,
		Secret:       []byte(cfg.Auth.JWTSecret),
		AccessTTL:    cfg.Auth.AccessTTL,
		RefreshTTL:   cfg.Auth.RefreshTTL,
	})

	if !cfg.Sync.Disabled {
		s, err := a.newScheduler()
		if err != nil {
			return nil, err
		}
		a.Scheduler = s
	}
	return a, nil
}

func mirrorTables(cfg config.Config) (domain.MirrorTable[domain.OrderRecord], domain.MirrorTable[domain.CustomerRecord]) {
	if !cfg.Baserow.Enabled() {
		log.Warn().Msg("BASEROW_TOKEN not set, mirror tables are kept in memory and lost on restart")
		return memory.NewTable[domain.OrderRecord](), memory.NewTable[domain.CustomerRecord]()
	}
	hc := httpclient.New(httpclient.Options{
		Name:      "baserow",
		Timeout:   cfg.Baserow.Timeout,
		Retries:   cfg.Retry.Max,
		WaitMin:   cfg.Retry.WaitMin,
		WaitMax:   cfg.Retry.WaitMax,
		Transport: baserow.TokenTransport(cfg.Baserow.Token, nil),
	})
	c := baserow.NewClient(cfg.Baserow.BaseURL, hc)
	return baserow.NewTable[domain.OrderRecord](c, cfg.Baserow.OrdersTableID),
		baserow.NewTable[domain.CustomerRecord](c, cfg.Baserow.CustomersTableID)
}

// newScheduler registers the two reconciliation tasks. They share nothing
// but the scheduler, so a slow customer sync never delays orders.
func (a *App) newScheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New()
	tasks := []scheduler.Task{
		{Name: domain.TaskOrderSync, Every: a.Config.Sync.OrdersEvery, Run: func(ctx context.Context) error {
			_, err := a.ReconcileUC.SyncOrders(ctx)
			return err
		}},
		{Name: domain.TaskCustomerSync, Every: a.Config.Sync.CustomersEvery, Run: func(ctx context.Context) error {
			_, err := a.ReconcileUC.SyncCustomers(ctx)
			return err
		}},
	}
	for _, t := range tasks {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (a *App) HTTPHandler() http.Handler {
	d := httpserver.Deps{
		Orders:    a.OrderUC,
		Customers: a.CustomerUC,
		Catalog:   a.CatalogUC,
		Coupons:   a.CouponUC,
		Reports:   a.ReportUC,
		FMS:       a.FMSUC,
		Sync:      a.ReconcileUC,
		Auth:      a.Auth,
	}
	if a.Scheduler != nil {
		d.Trigger = a.Scheduler.Trigger
	}
	return httpserver.New(d, httpserver.Options{
		Production: a.Config.IsProduction(),
		PerSecond:  a.Config.RateLimit.PerSecond,
		Burst:      a.Config.RateLimit.Burst,
	})
}
