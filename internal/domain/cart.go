package domain

import "github.com/shopspring/decimal"

// Cart is what the POS submits when placing an order.
type Cart struct {
	Items              []CartItem    `json:"items" validate:"required,min=1,dive"`
	Customer           *CartCustomer `json:"customer"`
	CouponCode         string        `json:"coupon_code"`
	Notes              string        `json:"notes"`
	Measurements       string        `json:"measurements"`
	OrderType          string        `json:"order_type"`
	Charges            CartCharges   `json:"charges"`
	PaymentMethod      string        `json:"payment_method" validate:"required"`
	PaymentMethodTitle string        `json:"payment_method_title"`
}

type CartItem struct {
	ProductID   int64            `json:"product_id" validate:"gt=0"`
	VariationID int64            `json:"variation_id"`
	Quantity    int              `json:"quantity" validate:"min=1"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Components  []CartComponent  `json:"components" validate:"dive"`
}

// CartComponent is the per-unit fabric usage of a line item.
type CartComponent struct {
	ComponentID   int64           `json:"component_id"`
	Name          string          `json:"name" validate:"required"`
	SKU           string          `json:"sku"`
	MetersPerUnit decimal.Decimal `json:"meters_per_unit"`
}

type CartCustomer struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Address   Address `json:"address"`
}

// CartCharges are the extra charge buckets of a POS order. Zero means absent.
type CartCharges struct {
	Alteration decimal.Decimal `json:"alteration"`
	Courier    decimal.Decimal `json:"courier"`
	Other      decimal.Decimal `json:"other"`
}
