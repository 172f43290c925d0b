package usecase

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/possync/internal/domain"
)

// Placeholder billing identity of walk-in sales.
const (
	WalkInFirstName = "Walk-in"
	WalkInLastName  = "Customer"

	courierMethodID    = "flat_rate"
	courierMethodTitle = "Courier"
)

// BuildOrderPayload turns a POS cart into the remote create-order body. The
// result always carries the POS marker.
func BuildOrderPayload(cart domain.Cart) domain.OrderPayload {
	p := domain.OrderPayload{
		PaymentMethod:      cart.PaymentMethod,
		PaymentMethodTitle: firstNonEmpty(cart.PaymentMethodTitle, cart.PaymentMethod),
		SetPaid:            true,
		CustomerNote:       cart.Notes,
		Billing:            billingFor(cart.Customer),
		LineItems:          make([]domain.PayloadLineItem, 0, len(cart.Items)),
		MetaData:           domain.MetaList{}.With(domain.MetaPOSOrder, domain.MetaPOSOrderYes),
	}
	if cart.Customer != nil && cart.Customer.ID > 0 {
		p.CustomerID = cart.Customer.ID
	}
	if cart.OrderType != "" {
		p.MetaData = p.MetaData.With(domain.MetaOrderType, cart.OrderType)
	}
	if cart.Measurements != "" {
		p.MetaData = p.MetaData.With(domain.MetaMeasurements, cart.Measurements)
	}

	for _, it := range cart.Items {
		p.LineItems = append(p.LineItems, payloadItem(it))
	}

	if !cart.Charges.Alteration.IsZero() {
		p.FeeLines = append(p.FeeLines, domain.FeeLine{Name: domain.FeeAlteration, Total: domain.AmountOf(cart.Charges.Alteration)})
	}
	if !cart.Charges.Other.IsZero() {
		p.FeeLines = append(p.FeeLines, domain.FeeLine{Name: domain.FeeOther, Total: domain.AmountOf(cart.Charges.Other)})
	}
	if !cart.Charges.Courier.IsZero() {
		p.ShippingLines = []domain.ShippingLine{{
			MethodID:    courierMethodID,
			MethodTitle: courierMethodTitle,
			Total:       domain.AmountOf(cart.Charges.Courier),
		}}
	}
	if code := strings.TrimSpace(cart.CouponCode); code != "" {
		p.CouponLines = []domain.CouponLine{{Code: code}}
	}
	return p
}

func payloadItem(it domain.CartItem) domain.PayloadLineItem {
	li := domain.PayloadLineItem{
		ProductID:   it.ProductID,
		VariationID: it.VariationID,
		Quantity:    it.Quantity,
	}
	if it.Price != nil {
		total := domain.AmountOf(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		li.Subtotal = &total
		li.Total = &total
	}
	if len(it.Components) > 0 {
		li.MetaData = domain.MetaList{}.With(domain.MetaFMSComponents, componentsJSON(it))
	}
	return li
}

// ComponentBreakdown computes meters_total = meters_per_unit * quantity per component.
func ComponentBreakdown(it domain.CartItem) []domain.FMSComponent {
	qty := decimal.NewFromInt(int64(it.Quantity))
	out := make([]domain.FMSComponent, 0, len(it.Components))
	for _, c := range it.Components {
		out = append(out, domain.FMSComponent{
			ComponentID:   c.ComponentID,
			Name:          c.Name,
			SKU:           c.SKU,
			MetersPerUnit: c.MetersPerUnit,
			Quantity:      it.Quantity,
			MetersTotal:   c.MetersPerUnit.Mul(qty),
		})
	}
	return out
}

func componentsJSON(it domain.CartItem) string {
	b, err := json.Marshal(ComponentBreakdown(it))
	if err != nil {
		return "[]"
	}
	return string(b)
}

func billingFor(c *domain.CartCustomer) domain.Address {
	if c == nil {
		return domain.Address{FirstName: WalkInFirstName, LastName: WalkInLastName}
	}
	b := c.Address
	b.FirstName = firstNonEmpty(c.FirstName, b.FirstName, WalkInFirstName)
	b.LastName = firstNonEmpty(c.LastName, b.LastName)
	b.Phone = strings.TrimSpace(firstNonEmpty(c.Phone, b.Phone))
	b.Email = strings.TrimSpace(firstNonEmpty(c.Email, b.Email))
	return b
}
