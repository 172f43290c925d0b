package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/phenrril/possync/internal/domain"
)

func periodParams(p domain.ReportPeriod) url.Values {
	q := url.Values{}
	if p.Period != "" {
		q.Set("period", p.Period)
		return q
	}
	if p.DateMin != "" {
		q.Set("date_min", p.DateMin)
	}
	if p.DateMax != "" {
		q.Set("date_max", p.DateMax)
	}
	return q
}

func (c *Client) SalesReport(ctx context.Context, p domain.ReportPeriod) (domain.SalesReport, error) {
	var out []domain.SalesReport
	if _, err := c.do(ctx, http.MethodGet, "/reports/sales", periodParams(p), nil, &out); err != nil {
		return domain.SalesReport{}, err
	}
	if len(out) == 0 {
		return domain.SalesReport{Totals: map[string]domain.SalesTotals{}}, nil
	}
	return out[0], nil
}

func (c *Client) TopSellers(ctx context.Context, p domain.ReportPeriod) ([]domain.TopSeller, error) {
	out := []domain.TopSeller{}
	_, err := c.do(ctx, http.MethodGet, "/reports/top_sellers", periodParams(p), nil, &out)
	return out, err
}

func (c *Client) Totals(ctx context.Context, kind domain.TotalsKind) ([]domain.TotalsEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown totals report %q", domain.ErrValidation, kind)
	}
	out := []domain.TotalsEntry{}
	_, err := c.do(ctx, http.MethodGet, "/reports/"+string(kind)+"/totals", nil, nil, &out)
	return out, err
}
