package domain

// SalesTotals is one bucket of a sales report (a day or a month).
type SalesTotals struct {
	Sales     Amount `json:"sales"`
	Orders    int    `json:"orders"`
	Items     int    `json:"items"`
	Tax       Amount `json:"tax"`
	Shipping  Amount `json:"shipping"`
	Discount  Amount `json:"discount"`
	Customers int    `json:"customers"`
}

type SalesReport struct {
	TotalSales      Amount                 `json:"total_sales"`
	NetSales        Amount                 `json:"net_sales"`
	AverageSales    Amount                 `json:"average_sales"`
	TotalOrders     int                    `json:"total_orders"`
	TotalItems      int                    `json:"total_items"`
	TotalTax        Amount                 `json:"total_tax"`
	TotalShipping   Amount                 `json:"total_shipping"`
	TotalRefunds    Amount                 `json:"total_refunds"`
	TotalDiscount   Amount                 `json:"total_discount"`
	TotalsGroupedBy string                 `json:"totals_grouped_by"`
	Totals          map[string]SalesTotals `json:"totals"`
	TotalCustomers  int                    `json:"total_customers"`
}

type TopSeller struct {
	Name      string `json:"name"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// TotalsEntry is one slug of a totals report, e.g. orders per status.
type TotalsEntry struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// TotalsKind names a resource the remote system can report totals for.
type TotalsKind string

const (
	TotalsOrders    TotalsKind = "orders"
	TotalsCustomers TotalsKind = "customers"
	TotalsProducts  TotalsKind = "products"
	TotalsCoupons   TotalsKind = "coupons"
	TotalsReviews   TotalsKind = "reviews"
)

func (k TotalsKind) Valid() bool {
	switch k {
	case TotalsOrders, TotalsCustomers, TotalsProducts, TotalsCoupons, TotalsReviews:
		return true
	}
	return false
}

// ReportPeriod selects a report window. Period ("week", "month", "last_month",
// "year") wins over the explicit date range when both are set.
type ReportPeriod struct {
	Period  string
	DateMin string
	DateMax string
}
