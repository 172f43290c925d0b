package domain

import (
	"github.com/shopspring/decimal"
)

// OrderStatus is the mirror's projection of the remote order status.
type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefund    OrderStatus = "refund"
)

// Fee line names the POS recognizes. Any other fee name is not mapped to a charge bucket.
const (
	FeeAlteration = "Alteration Charges"
	FeeOther      = "Other Charges"
)

type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// RemoteOrder is an order as returned by the remote order system.
type RemoteOrder struct {
	ID                 int64          `json:"id"`
	Number             string         `json:"number"`
	Status             string         `json:"status"`
	Currency           string         `json:"currency"`
	Total              Amount         `json:"total"`
	DiscountTotal      Amount         `json:"discount_total"`
	ShippingTotal      Amount         `json:"shipping_total"`
	TotalTax           Amount         `json:"total_tax"`
	CustomerID         int64          `json:"customer_id"`
	CustomerNote       string         `json:"customer_note"`
	Billing            Address        `json:"billing"`
	Shipping           Address        `json:"shipping"`
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	DateCreated        string         `json:"date_created"`
	DateCreatedGMT     string         `json:"date_created_gmt"`
	DateModified       string         `json:"date_modified"`
	DateModifiedGMT    string         `json:"date_modified_gmt"`
	MetaData           MetaList       `json:"meta_data"`
	LineItems          []RemoteItem   `json:"line_items"`
	FeeLines           []FeeLine      `json:"fee_lines"`
	ShippingLines      []ShippingLine `json:"shipping_lines"`
	CouponLines        []CouponLine   `json:"coupon_lines"`
}

type RemoteItem struct {
	ID          int64    `json:"id,omitempty"`
	Name        string   `json:"name"`
	ProductID   int64    `json:"product_id"`
	VariationID int64    `json:"variation_id"`
	Quantity    int      `json:"quantity"`
	SKU         string   `json:"sku"`
	Price       Amount   `json:"price"`
	Subtotal    Amount   `json:"subtotal"`
	Total       Amount   `json:"total"`
	TotalTax    Amount   `json:"total_tax"`
	MetaData    MetaList `json:"meta_data"`
}

type FeeLine struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Total Amount `json:"total"`
}

type ShippingLine struct {
	ID          int64  `json:"id,omitempty"`
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       Amount `json:"total"`
}

type CouponLine struct {
	ID          int64    `json:"id,omitempty"`
	Code        string   `json:"code"`
	Discount    Amount   `json:"discount"`
	DiscountTax Amount   `json:"discount_tax"`
	MetaData    MetaList `json:"meta_data,omitempty"`
}

type OrderNote struct {
	ID           int64  `json:"id,omitempty"`
	Note         string `json:"note"`
	CustomerNote bool   `json:"customer_note"`
	DateCreated  string `json:"date_created,omitempty"`
}

// OrderPayload is the create-order body sent to the remote order system.
type OrderPayload struct {
	PaymentMethod      string            `json:"payment_method,omitempty"`
	PaymentMethodTitle string            `json:"payment_method_title,omitempty"`
	SetPaid            bool              `json:"set_paid"`
	Status             string            `json:"status,omitempty"`
	CustomerID         int64             `json:"customer_id,omitempty"`
	CustomerNote       string            `json:"customer_note,omitempty"`
	Billing            Address           `json:"billing"`
	Shipping           *Address          `json:"shipping,omitempty"`
	LineItems          []PayloadLineItem `json:"line_items"`
	FeeLines           []FeeLine         `json:"fee_lines,omitempty"`
	ShippingLines      []ShippingLine    `json:"shipping_lines,omitempty"`
	CouponLines        []CouponLine      `json:"coupon_lines,omitempty"`
	MetaData           MetaList          `json:"meta_data"`
}

type PayloadLineItem struct {
	ProductID   int64    `json:"product_id"`
	VariationID int64    `json:"variation_id,omitempty"`
	Quantity    int      `json:"quantity"`
	Subtotal    *Amount  `json:"subtotal,omitempty"`
	Total       *Amount  `json:"total,omitempty"`
	MetaData    MetaList `json:"meta_data,omitempty"`
}

// FMSComponent is one fabric/material component of a tailored line item.
type FMSComponent struct {
	ComponentID   int64           `json:"component_id,omitempty"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	MetersPerUnit decimal.Decimal `json:"meters_per_unit"`
	Quantity      int             `json:"quantity"`
	MetersTotal   decimal.Decimal `json:"meters_total"`
}

// LineItem is the fixed line-item shape stored (serialized) in the mirror.
type LineItem struct {
	ProductID   int64           `json:"product_id"`
	VariationID int64           `json:"variation_id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	Tax         decimal.Decimal `json:"tax"`
	Components  []FMSComponent  `json:"fms_components,omitempty"`
}

// OrderRecord is an order row of the secondary store.
type OrderRecord struct {
	RowID            int64           `json:"id,omitempty"`
	WooOrderID       FlexInt         `json:"woo_order_id" validate:"gt=0"`
	OrderNumber      string          `json:"order_number" validate:"required"`
	Status           OrderStatus     `json:"status" validate:"required,oneof=paid completed cancelled refund"`
	Total            decimal.Decimal `json:"total"`
	DiscountType     string          `json:"discount_type"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	AlterationCharge decimal.Decimal `json:"alteration_charge"`
	CourierCharge    decimal.Decimal `json:"courier_charge"`
	OtherCharge      decimal.Decimal `json:"other_charge"`
	Items            string          `json:"items"`
	CustomerID       *FlexInt        `json:"customer_id"`
	OrderType        string          `json:"order_type"`
	Measurements     string          `json:"measurements"`
	Notes            string          `json:"notes"`
	PaymentMethod    string          `json:"payment_method"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// StatusPatch is the narrow mirror update written when only the status changes.
type StatusPatch struct {
	Status    OrderStatus `json:"status"`
	UpdatedAt string      `json:"updated_at"`
}
