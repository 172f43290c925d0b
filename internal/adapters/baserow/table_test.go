package baserow

import (
	"context"
	"encoding/json"
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

func newTestTable(t *testing.T, h http.HandlerFunc) *Table[domain.OrderRecord] {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	hc := httpclient.New(httpclient.Options{
		Name:      "test",
		Timeout:   2 * time.Second,
		Retries:   1,
		WaitMin:   time.Millisecond,
		WaitMax:   2 * time.Millisecond,
		Transport: TokenTransport("db-token", http.DefaultTransport),
	})
	return NewTable[domain.OrderRecord](NewClient(srv.URL, hc), 321)
}

func TestFindBySendsExactFilterAndToken(t *testing.T) {
	tbl := newTestTable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token db-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/database/rows/table/321/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("user_field_names"))
		assert.Equal(t, "1007", q.Get("filter__woo_order_id__equal"))
		_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[
			{"id":5,"woo_order_id":"1007","order_number":"1007","status":"paid","total":"120.00","customer_id":null}]}`))
	})

	rec, err := tbl.FindBy(context.Background(), "woo_order_id", "1007")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.RowID)
	assert.Equal(t, domain.FlexInt(1007), rec.WooOrderID)
	assert.Equal(t, "120", rec.Total.String())
	assert.Nil(t, rec.CustomerID)
}

func TestFindByMissIsNotFound(t *testing.T) {
	tbl := newTestTable(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"next":null,"previous":null,"results":[]}`))
	})

	_, err := tbl.FindBy(context.Background(), "woo_order_id", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByBlankValueSendsNoRequest(t *testing.T) {
	var hits atomic.Int32
	tbl := newTestTable(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":9,"woo_order_id":"1"}]}`))
	})

	_, err := tbl.FindBy(context.Background(), "phone", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, hits.Load())
}

func TestUpdatePatchesRow(t *testing.T) {
	tbl := newTestTable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/database/rows/table/321/9/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		assert.Len(t, body, 2)
		_, _ = w.Write([]byte(`{"id":9,"woo_order_id":"44","order_number":"44","status":"completed"}`))
	})

	rec, err := tbl.Update(context.Background(), 9, domain.StatusPatch{Status: domain.OrderStatusCompleted, UpdatedAt: "2024-05-01T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, rec.Status)
}

func TestListPassesPaging(t *testing.T) {
	tbl := newTestTable(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("size"))
		assert.Equal(t, "-created_at", q.Get("order_by"))
		assert.Equal(t, "paid", q.Get("filter__status__equal"))
		_, _ = w.Write([]byte(`{"count":30,"next":null,"previous":"p1","results":[]}`))
	})

	page, err := tbl.List(context.Background(), domain.RowQuery{
		Page: 2, Size: 25, OrderBy: "-created_at", Filters: map[string]string{"status": "paid"},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, page.Count)
	assert.Equal(t, "p1", page.Previous)
	assert.Empty(t, page.Results)
}

func TestDeleteReportsRemoteError(t *testing.T) {
	tbl := newTestTable(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"ERROR_ROW_DOES_NOT_EXIST"}`))
	})

	err := tbl.Delete(context.Background(), 77)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "ERROR_ROW_DOES_NOT_EXIST")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
