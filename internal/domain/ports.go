package domain

import (
	"context"
	"time"
)

// RemotePage is one page of a remote list endpoint.
type RemotePage[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListQuery pages through a remote collection. Extra holds resource specific
// filters passed through as query parameters.
type ListQuery struct {
	Page    int
	PerPage int
	OrderBy string
	Order   string
	Search  string
	Extra   map[string]string
}

type OrderAPI interface {
	ListOrders(ctx context.Context, q ListQuery) (RemotePage[RemoteOrder], error)
	GetOrder(ctx context.Context, id int64) (RemoteOrder, error)
	CreateOrder(ctx context.Context, p OrderPayload) (RemoteOrder, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (RemoteOrder, error)
	AddOrderNote(ctx context.Context, id int64, note OrderNote) (OrderNote, error)
}

type CustomerAPI interface {
	ListCustomers(ctx context.Context, q ListQuery) (RemotePage[RemoteCustomer], error)
	GetCustomer(ctx context.Context, id int64) (RemoteCustomer, error)
	CreateCustomer(ctx context.Context, c RemoteCustomer) (RemoteCustomer, error)
	UpdateCustomer(ctx context.Context, id int64, c RemoteCustomer) (RemoteCustomer, error)
}

type CatalogAPI interface {
	ListProducts(ctx context.Context, f ProductFilter) (RemotePage[Product], error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListVariations(ctx context.Context, productID int64) ([]Variation, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type CouponAPI interface {
	ListCoupons(ctx context.Context, q ListQuery) (RemotePage[Coupon], error)
	GetCoupon(ctx context.Context, id int64) (Coupon, error)
	CreateCoupon(ctx context.Context, c Coupon) (Coupon, error)
	UpdateCoupon(ctx context.Context, id int64, c Coupon) (Coupon, error)
	DeleteCoupon(ctx context.Context, id int64) (Coupon, error)
}

type ReportAPI interface {
	SalesReport(ctx context.Context, p ReportPeriod) (SalesReport, error)
	TopSellers(ctx context.Context, p ReportPeriod) ([]TopSeller, error)
	Totals(ctx context.Context, kind TotalsKind) ([]TotalsEntry, error)
}

// RowQuery lists rows of a mirror table. Filters are exact-match per field.
type RowQuery struct {
	Page    int
	Size    int
	OrderBy string
	Search  string
	Filters map[string]string
}

// RowPage is one page of a mirror table listing.
type RowPage[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// MirrorTable is one table of the secondary store. FindBy returns ErrNotFound
// when no row matches.
type MirrorTable[T any] interface {
	List(ctx context.Context, q RowQuery) (RowPage[T], error)
	Get(ctx context.Context, rowID int64) (T, error)
	FindBy(ctx context.Context, field, value string) (T, error)
	Create(ctx context.Context, row T) (T, error)
	Update(ctx context.Context, rowID int64, patch any) (T, error)
	Delete(ctx context.Context, rowID int64) error
}

// Cache is an advisory read cache: a miss or an expired entry means "fetch fresh".
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
}

type SyncRunRepo interface {
	Save(ctx context.Context, run *SyncRun) error
	ListRecent(ctx context.Context, task string, limit int) ([]SyncRun, error)
}

// Clock is swapped in tests.
type Clock func() time.Time
