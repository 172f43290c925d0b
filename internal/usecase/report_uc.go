package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/phenrril/possync/internal/domain"
)

var reportPeriods = map[string]bool{"": true, "week": true, "month": true, "last_month": true, "year": true}

type ReportUC struct {
	Reports domain.ReportAPI
	Orders  domain.MirrorTable[domain.OrderRecord]
}

// Dashboard is the POS landing summary for one period.
type Dashboard struct {
	Period         domain.ReportPeriod  `json:"period"`
	Sales          domain.SalesReport   `json:"sales"`
	TopSellers     []domain.TopSeller   `json:"top_sellers"`
	OrderTotals    []domain.TotalsEntry `json:"order_totals"`
	MirroredOrders int                  `json:"mirrored_orders"`
	Warning        string               `json:"warning,omitempty"`
}

// CheckPeriod validates a report window. Dates use YYYY-MM-DD.
func CheckPeriod(p domain.ReportPeriod) error {
	if !reportPeriods[p.Period] {
		return fmt.Errorf("%w: unknown period %q", domain.ErrValidation, p.Period)
	}
	var minDate, maxDate time.Time
	var err error
	if p.DateMin != "" {
		if minDate, err = time.Parse(time.DateOnly, p.DateMin); err != nil {
			return fmt.Errorf("%w: date_min %q", domain.ErrValidation, p.DateMin)
		}
	}
	if p.DateMax != "" {
		if maxDate, err = time.Parse(time.DateOnly, p.DateMax); err != nil {
			return fmt.Errorf("%w: date_max %q", domain.ErrValidation, p.DateMax)
		}
	}
	if !minDate.IsZero() && !maxDate.IsZero() && maxDate.Before(minDate) {
		return fmt.Errorf("%w: date_max before date_min", domain.ErrValidation)
	}
	return nil
}

// Dashboard fetches the remote reports concurrently. The mirror count is
// best effort and never fails the dashboard.
func (uc *ReportUC) Dashboard(ctx context.Context, p domain.ReportPeriod) (Dashboard, error) {
	if err := CheckPeriod(p); err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{Period: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := uc.Reports.SalesReport(gctx, p)
		d.Sales = r
		return err
	})
	g.Go(func() error {
		r, err := uc.Reports.TopSellers(gctx, p)
		d.TopSellers = r
		return err
	})
	g.Go(func() error {
		r, err := uc.Reports.Totals(gctx, domain.TotalsOrders)
		d.OrderTotals = r
		return err
	})
	var mirrorErr error
	g.Go(func() error {
		if uc.Orders == nil {
			return nil
		}
		page, err := uc.Orders.List(gctx, domain.RowQuery{Size: 1})
		if err != nil {
			mirrorErr = err
			return nil
		}
		d.MirroredOrders = page.Count
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	if mirrorErr != nil {
		log.Warn().Err(mirrorErr).Msg("dashboard mirror count failed")
		d.Warning = "mirror order count unavailable"
	}
	return d, nil
}

func (uc *ReportUC) Sales(ctx context.Context, p domain.ReportPeriod) (domain.SalesReport, error) {
	if err := CheckPeriod(p); err != nil {
		return domain.SalesReport{}, err
	}
	return uc.Reports.SalesReport(ctx, p)
}

func (uc *ReportUC) TopSellers(ctx context.Context, p domain.ReportPeriod) ([]domain.TopSeller, error) {
	if err := CheckPeriod(p); err != nil {
		return nil, err
	}
	return uc.Reports.TopSellers(ctx, p)
}

func (uc *ReportUC) Totals(ctx context.Context, kind domain.TotalsKind) ([]domain.TotalsEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown totals report %q", domain.ErrValidation, kind)
	}
	return uc.Reports.Totals(ctx, kind)
}
