package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/phenrril/possync/internal/adapters/cache"
	"github.com/phenrril/possync/internal/adapters/repo/memory"
	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/usecase"
)

type stubOrders struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]domain.RemoteOrder
}

func (s *stubOrders) ListOrders(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.RemoteOrder], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := domain.RemotePage[domain.RemoteOrder]{TotalPages: 1}
	for _, o := range s.orders {
		page.Items = append(page.Items, o)
	}
	page.Total = len(page.Items)
	return page, nil
}

func (s *stubOrders) GetOrder(ctx context.Context, id int64) (domain.RemoteOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.RemoteOrder{}, &domain.APIError{Service: "woocommerce", Method: http.MethodGet, Status: http.StatusNotFound, Body: "missing"}
	}
	return o, nil
}

func (s *stubOrders) CreateOrder(ctx context.Context, p domain.OrderPayload) (domain.RemoteOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o := domain.RemoteOrder{
		ID:             s.nextID,
		Status:         "processing",
		Billing:        p.Billing,
		PaymentMethod:  p.PaymentMethod,
		DateCreatedGMT: "2024-05-01T10:00:00",
		MetaData:       p.MetaData,
		FeeLines:       p.FeeLines,
	}
	for _, li := range p.LineItems {
		it := domain.RemoteItem{ProductID: li.ProductID, Quantity: li.Quantity, MetaData: li.MetaData}
		if li.Total != nil {
			it.Total = *li.Total
			o.Total = domain.AmountOf(o.Total.Add(li.Total.Decimal))
		}
		o.LineItems = append(o.LineItems, it)
	}
	s.orders[o.ID] = o
	return o, nil
}

func (s *stubOrders) UpdateOrderStatus(ctx context.Context, id int64, status string) (domain.RemoteOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	o.Status = status
	s.orders[id] = o
	return o, nil
}

func (s *stubOrders) AddOrderNote(ctx context.Context, id int64, n domain.OrderNote) (domain.OrderNote, error) {
	n.ID = 1
	return n, nil
}

type stubCustomers struct {
	created []domain.RemoteCustomer
}

func (s *stubCustomers) ListCustomers(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.RemoteCustomer], error) {
	return domain.RemotePage[domain.RemoteCustomer]{}, nil
}

func (s *stubCustomers) GetCustomer(ctx context.Context, id int64) (domain.RemoteCustomer, error) {
	return domain.RemoteCustomer{}, &domain.APIError{Status: http.StatusNotFound}
}

func (s *stubCustomers) CreateCustomer(ctx context.Context, c domain.RemoteCustomer) (domain.RemoteCustomer, error) {
	c.ID = int64(700 + len(s.created))
	s.created = append(s.created, c)
	return c, nil
}

func (s *stubCustomers) UpdateCustomer(ctx context.Context, id int64, c domain.RemoteCustomer) (domain.RemoteCustomer, error) {
	c.ID = id
	return c, nil
}

// stubCatalog fails every call the way an unavailable store does.
type stubCatalog struct{}

func (stubCatalog) ListProducts(ctx context.Context, f domain.ProductFilter) (domain.RemotePage[domain.Product], error) {
	return domain.RemotePage[domain.Product]{}, &domain.APIError{Service: "woocommerce", Status: http.StatusServiceUnavailable, Body: "maintenance"}
}

func (stubCatalog) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return domain.Product{}, &domain.APIError{Service: "woocommerce", Status: http.StatusServiceUnavailable, Body: "maintenance"}
}

func (stubCatalog) ListVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	return nil, nil
}

func (stubCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Suits"}}, nil
}

type stubReports struct{}

func (stubReports) SalesReport(ctx context.Context, p domain.ReportPeriod) (domain.SalesReport, error) {
	return domain.SalesReport{
		TotalSales:      domain.NewAmount("1250.50"),
		TotalOrders:     7,
		TotalsGroupedBy: "day",
		Totals: map[string]domain.SalesTotals{
			"2024-05-02": {Sales: domain.NewAmount("250.50"), Orders: 2},
			"2024-05-01": {Sales: domain.NewAmount("1000"), Orders: 5},
		},
	}, nil
}

func (stubReports) TopSellers(ctx context.Context, p domain.ReportPeriod) ([]domain.TopSeller, error) {
	return []domain.TopSeller{{Name: "Blazer", ProductID: 10, Quantity: 4}}, nil
}

func (stubReports) Totals(ctx context.Context, kind domain.TotalsKind) ([]domain.TotalsEntry, error) {
	return []domain.TotalsEntry{{Slug: "processing", Name: "Processing", Total: 3}}, nil
}

type testEnv struct {
	handler        http.Handler
	orderMirror    *memory.Table[domain.OrderRecord]
	customerMirror *memory.Table[domain.CustomerRecord]
	customers      *stubCustomers
	triggered      []string
}

func newTestEnv(t *testing.T, o Options) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		orderMirror:    memory.NewTable[domain.OrderRecord](),
		customerMirror: memory.NewTable[domain.CustomerRecord](),
		customers:      &stubCustomers{},
	}
	orders := &stubOrders{nextID: 2000, orders: map[int64]domain.RemoteOrder{}}
	syncUC := usecase.NewSyncUC(env.orderMirror, env.customerMirror)
	runs := memory.NewSyncRunRepo(10)
	require.NoError(t, runs.Save(context.Background(), &domain.SyncRun{Task: domain.TaskOrderSync, StartedAt: time.Now(), Created: 2}))

	env.handler = New(Deps{
		Orders:    usecase.NewOrderUC(orders, env.orderMirror, syncUC),
		Customers: usecase.NewCustomerUC(env.customers, env.customerMirror, syncUC, "pos.invalid"),
		Catalog: &usecase.CatalogUC{
			Catalog:    stubCatalog{},
			Categories: cache.NewTTL[string, []domain.Category](8, time.Minute),
			Variations: cache.NewTTL[int64, []domain.Variation](8, time.Minute),
		},
		Reports: &usecase.ReportUC{Reports: stubReports{}, Orders: env.orderMirror},
		FMS:     &usecase.FMSUC{Orders: orders},
		Sync:    &usecase.ReconcileUC{Runs: runs},
		Trigger: func(task string) error {
			if task != domain.TaskOrderSync && task != domain.TaskCustomerSync {
				return domain.ErrNotFound
			}
			env.triggered = append(env.triggered, task)
			return nil
		},
		Auth: NewAuth(AuthConfig{
			Username:     "pos",
			PasswordHash: string(hash),
			Secret:       []byte("test-secret"),
			AccessTTL:    time.Minute,
			RefreshTTL:   time.Hour,
		}),
	}, o)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.0.0.1:5000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) TokenPair {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Username: "pos", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pair TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	return pair
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthIsPublicAndTagged(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "till-7-0042")
	tagged := httptest.NewRecorder()
	env.handler.ServeHTTP(tagged, req)
	assert.Equal(t, "till-7-0042", tagged.Header().Get(middleware.RequestIDHeader))

	rec = env.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderMirrorsRow(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.login(t).AccessToken

	cart := `{"items":[{"product_id":10,"quantity":2,"price":"50"}],"payment_method":"cash","order_type":"tailoring"}`
	rec := env.do(t, http.MethodPost, "/api/orders", tok, cart)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	placed := decodeBody[usecase.PlacedOrder](t, rec)
	assert.Equal(t, int64(2001), placed.Order.ID)
	assert.True(t, placed.Mirror.OK)
	assert.Empty(t, placed.Warning)
	assert.Equal(t, 1, env.orderMirror.Len())

	rec = env.do(t, http.MethodGet, "/api/orders?order_type=tailoring", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[domain.RowPage[domain.OrderRecord]](t, rec)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "100", page.Results[0].Total.String())
	assert.Equal(t, domain.OrderStatusPaid, page.Results[0].Status)
}

func TestInvalidCartDetailHiddenInProduction(t *testing.T) {
	cart := `{"items":[],"payment_method":"cash"}`

	dev := newTestEnv(t, Options{})
	rec := dev.do(t, http.MethodPost, "/api/orders", dev.login(t).AccessToken, cart)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeBody[errorBody](t, rec).Detail)

	prod := newTestEnv(t, Options{Production: true})
	rec = prod.do(t, http.MethodPost, "/api/orders", prod.login(t).AccessToken, cart)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "invalid request", body.Error)
	assert.Empty(t, body.Detail)

	rec = prod.do(t, http.MethodPost, "/api/orders", prod.login(t).AccessToken, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicatePhoneReturnsExistingCustomer(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.login(t).AccessToken
	_, err := env.customerMirror.Create(context.Background(), domain.CustomerRecord{
		WooCustomerID: domain.FlexID(42), FirstName: "Ana", Phone: "9876543210",
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/customers", tok, usecase.CustomerInput{FirstName: "Other", Phone: "9876543210"})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	var body struct {
		Data domain.CustomerRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ana", body.Data.FirstName)
	assert.Empty(t, env.customers.created)

	rec = env.do(t, http.MethodPost, "/api/customers", tok, usecase.CustomerInput{FirstName: "Luis", Phone: "1122334455"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, env.customers.created, 1)
	assert.Equal(t, "1122334455@pos.invalid", env.customers.created[0].Email)

	rec = env.do(t, http.MethodDelete, "/api/customers/42", tok, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.login(t).AccessToken

	rec := env.do(t, http.MethodGet, "/api/products/5", tok, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/orders/999", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/orders/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/reports/totals/planets", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/reports/sales?period=decade", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesAndDashboard(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.login(t).AccessToken

	rec := env.do(t, http.MethodGet, "/api/categories", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Category](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/reports/dashboard?period=week", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	d := decodeBody[usecase.Dashboard](t, rec)
	assert.Equal(t, 7, d.Sales.TotalOrders)
	assert.Len(t, d.TopSellers, 1)
	assert.Equal(t, 0, d.MirroredOrders)
}

func TestSalesSpreadsheet(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.login(t).AccessToken

	rec := env.do(t, http.MethodGet, "/api/reports/sales?period=month&format=xlsx", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales-month.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{summarySheet, bucketSheet}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", v)

	rows, err := f.GetRows(bucketSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-01", rows[1][0])
	assert.Equal(t, "2024-05-02", rows[2][0])
}

func TestSyncRunsAndTrigger(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.login(t).AccessToken

	rec := env.do(t, http.MethodGet, "/api/sync/runs?task=orders", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decodeBody[[]domain.SyncRun](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Created)

	rec = env.do(t, http.MethodGet, "/api/sync/runs?task=products", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/sync/customers", tok, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"customers"}, env.triggered)

	rec = env.do(t, http.MethodPost, "/api/sync/products", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitPerClient(t *testing.T) {
	env := newTestEnv(t, Options{PerSecond: 0.001, Burst: 2})
	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodGet, "/api/categories", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := env.do(t, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	rec = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("X-Forwarded-For", "192.0.2.7, 10.0.0.1")
	req.RemoteAddr = "10.0.0.1:5000"
	other := httptest.NewRecorder()
	env.handler.ServeHTTP(other, req)
	assert.Equal(t, http.StatusUnauthorized, other.Code, "the forwarded client has its own bucket")
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), middleware.RequestID, Logging, Recovery)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}
