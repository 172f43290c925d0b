package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/phenrril/possync/internal/adapters/repo/memory"
	"github.com/phenrril/possync/internal/domain"
)

var errRemoteDown = errors.New("remote down")

// simulateRemote answers a create-order call the way the store does: it keeps
// metadata and line items and assigns ids.
func simulateRemote(p domain.OrderPayload, id int64) domain.RemoteOrder {
	o := domain.RemoteOrder{
		ID:                 id,
		Number:             strconv.FormatInt(id, 10),
		Status:             "processing",
		CustomerID:         p.CustomerID,
		CustomerNote:       p.CustomerNote,
		Billing:            p.Billing,
		PaymentMethod:      p.PaymentMethod,
		PaymentMethodTitle: p.PaymentMethodTitle,
		DateCreatedGMT:     "2024-05-01T10:00:00",
		DateModifiedGMT:    "2024-05-01T10:00:00",
		MetaData:           p.MetaData,
		FeeLines:           p.FeeLines,
		ShippingLines:      p.ShippingLines,
		CouponLines:        p.CouponLines,
	}
	for i, li := range p.LineItems {
		it := domain.RemoteItem{
			ID:          int64(i + 1),
			Name:        "Item " + strconv.FormatInt(li.ProductID, 10),
			ProductID:   li.ProductID,
			VariationID: li.VariationID,
			Quantity:    li.Quantity,
			MetaData:    li.MetaData,
		}
		if li.Total != nil {
			it.Total = *li.Total
			it.Subtotal = *li.Subtotal
			o.Total = domain.AmountOf(o.Total.Add(li.Total.Decimal))
		}
		o.LineItems = append(o.LineItems, it)
	}
	return o
}

type fakeOrderAPI struct {
	mu      sync.Mutex
	orders  map[int64]domain.RemoteOrder
	list    []domain.RemoteOrder
	listErr error
	failAll bool
	nextID  int64
	notes   []domain.OrderNote
}

func newFakeOrderAPI() *fakeOrderAPI {
	return &fakeOrderAPI{orders: map[int64]domain.RemoteOrder{}, nextID: 1000}
}

func (f *fakeOrderAPI) ListOrders(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.RemoteOrder], error) {
	if f.listErr != nil {
		return domain.RemotePage[domain.RemoteOrder]{}, f.listErr
	}
	items := f.list
	if q.PerPage > 0 && len(items) > q.PerPage {
		items = items[:q.PerPage]
	}
	return domain.RemotePage[domain.RemoteOrder]{Items: items, Total: len(f.list), TotalPages: 1}, nil
}

func (f *fakeOrderAPI) GetOrder(ctx context.Context, id int64) (domain.RemoteOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.RemoteOrder{}, &domain.APIError{Service: "fake", Status: 404, Body: "invalid id"}
	}
	return o, nil
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, p domain.OrderPayload) (domain.RemoteOrder, error) {
	if f.failAll {
		return domain.RemoteOrder{}, errRemoteDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o := simulateRemote(p, f.nextID)
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderAPI) UpdateOrderStatus(ctx context.Context, id int64, status string) (domain.RemoteOrder, error) {
	if f.failAll {
		return domain.RemoteOrder{}, errRemoteDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.RemoteOrder{}, &domain.APIError{Service: "fake", Status: 404}
	}
	o.Status = status
	f.orders[id] = o
	return o, nil
}

func (f *fakeOrderAPI) AddOrderNote(ctx context.Context, id int64, note domain.OrderNote) (domain.OrderNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return domain.OrderNote{}, &domain.APIError{Service: "fake", Status: 404}
	}
	note.ID = int64(len(f.notes) + 1)
	f.notes = append(f.notes, note)
	return note, nil
}

type fakeCustomerAPI struct {
	mu        sync.Mutex
	customers map[int64]domain.RemoteCustomer
	list      []domain.RemoteCustomer
	created   []domain.RemoteCustomer
	nextID    int64
}

func newFakeCustomerAPI() *fakeCustomerAPI {
	return &fakeCustomerAPI{customers: map[int64]domain.RemoteCustomer{}, nextID: 500}
}

func (f *fakeCustomerAPI) ListCustomers(ctx context.Context, q domain.ListQuery) (domain.RemotePage[domain.RemoteCustomer], error) {
	return domain.RemotePage[domain.RemoteCustomer]{Items: f.list, Total: len(f.list), TotalPages: 1}, nil
}

func (f *fakeCustomerAPI) GetCustomer(ctx context.Context, id int64) (domain.RemoteCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return domain.RemoteCustomer{}, &domain.APIError{Service: "fake", Status: 404}
	}
	return c, nil
}

func (f *fakeCustomerAPI) CreateCustomer(ctx context.Context, c domain.RemoteCustomer) (domain.RemoteCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.DateCreatedGMT = "2024-05-01T10:00:00"
	f.customers[c.ID] = c
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCustomerAPI) UpdateCustomer(ctx context.Context, id int64, in domain.RemoteCustomer) (domain.RemoteCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return domain.RemoteCustomer{}, &domain.APIError{Service: "fake", Status: 404}
	}
	if in.FirstName != "" {
		c.FirstName = in.FirstName
		c.Billing.FirstName = in.FirstName
	}
	if in.Billing.Phone != "" {
		c.Billing.Phone = in.Billing.Phone
	}
	if in.Billing.City != "" {
		c.Billing.City = in.Billing.City
	}
	f.customers[id] = c
	return c, nil
}

// flakyOrders fails writes for the listed foreign order ids.
type flakyOrders struct {
	*memory.Table[domain.OrderRecord]
	failFor map[domain.FlexInt]bool
}

func (t *flakyOrders) Create(ctx context.Context, row domain.OrderRecord) (domain.OrderRecord, error) {
	if t.failFor[row.WooOrderID] {
		return domain.OrderRecord{}, &domain.APIError{Service: "baserow", Status: 500, Body: `{"error":"ERROR_DB"}`}
	}
	return t.Table.Create(ctx, row)
}
