package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/possync/internal/adapters/httpclient"
	"github.com/phenrril/possync/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	hc := httpclient.New(httpclient.Options{
		Name:    "test",
		Timeout: 2 * time.Second,
		Retries: 2,
		WaitMin: time.Millisecond,
		WaitMax: 2 * time.Millisecond,
	})
	return NewClient(srv.URL, "ck_test", "cs_test", hc)
}

func TestListOrdersSendsQueryAndReadsTotals(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		assert.Equal(t, "date", r.URL.Query().Get("orderby"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		w.Header().Set("X-WP-Total", "120")
		w.Header().Set("X-WP-TotalPages", "3")
		_, _ = w.Write([]byte(`[{"id":7,"number":"1007","status":"processing","total":"99.50",
			"meta_data":[{"id":1,"key":"_pos_order","value":"yes"}]}]`))
	})

	page, err := c.ListOrders(context.Background(), domain.ListQuery{Page: 1, PerPage: 50, OrderBy: "date", Order: "desc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 120, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	o := page.Items[0]
	assert.Equal(t, int64(7), o.ID)
	assert.Equal(t, "99.50", o.Total.StringFixed(2))
	assert.Equal(t, "yes", o.MetaData.String(domain.MetaPOSOrder))
}

func TestRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":42,"email":"a@b.c"}`))
	})

	cust, err := c.GetCustomer(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cust.ID)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"woocommerce_rest_invalid","message":"bad"}`))
	})

	_, err := c.CreateOrder(context.Background(), domain.OrderPayload{})
	require.Error(t, err)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Body, "woocommerce_rest_invalid")
	assert.Equal(t, int32(1), hits.Load())
}

func TestExhaustedRetriesReturnLastBody(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	})

	_, err := c.GetOrder(context.Background(), 1)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "maintenance", apiErr.Body)
	assert.Equal(t, int32(3), hits.Load())
}

func TestNotFoundWrapsDomainError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"woocommerce_rest_shop_order_invalid_id"}`))
	})

	_, err := c.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOrderStatusSendsOnlyStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/orders/15", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "completed"}, body)
		_, _ = w.Write([]byte(`{"id":15,"status":"completed"}`))
	})

	o, err := c.UpdateOrderStatus(context.Background(), 15, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", o.Status)
}

func TestListCategoriesWalksPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-TotalPages", "2")
		cats := make([]domain.Category, 0, categoriesPerPage)
		n := categoriesPerPage
		if r.URL.Query().Get("page") == "2" {
			n = 3
		}
		for i := 0; i < n; i++ {
			cats = append(cats, domain.Category{ID: int64(i + 1), Name: "c"})
		}
		_ = json.NewEncoder(w).Encode(cats)
	})

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, categoriesPerPage+3)
}

func TestTotalsRejectsUnknownKind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.Totals(context.Background(), domain.TotalsKind("refunds"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSalesReportPeriodWinsOverDates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "week", r.URL.Query().Get("period"))
		assert.Empty(t, r.URL.Query().Get("date_min"))
		_, _ = w.Write([]byte(`[{"total_sales":"1500.00","total_orders":12,"totals":{}}]`))
	})

	rep, err := c.SalesReport(context.Background(), domain.ReportPeriod{Period: "week", DateMin: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "1500.00", rep.TotalSales.StringFixed(2))
	assert.Equal(t, 12, rep.TotalOrders)
}
