package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/possync/internal/domain"
)

// DiscountTypeCoupon is stored when the coupon line does not say which kind of discount it was.
const DiscountTypeCoupon = "coupon"

var remoteStatusMap = map[string]domain.OrderStatus{
	"checkout-draft": domain.OrderStatusPaid,
	"pending":        domain.OrderStatusPaid,
	"processing":     domain.OrderStatusPaid,
	"on-hold":        domain.OrderStatusPaid,
	"completed":      domain.OrderStatusCompleted,
	"cancelled":      domain.OrderStatusCancelled,
	"failed":         domain.OrderStatusCancelled,
	"refunded":       domain.OrderStatusRefund,
}

// MapStatus projects a remote order status onto the mirror's four states.
// Anything unrecognized counts as paid.
func MapStatus(remote string) domain.OrderStatus {
	if s, ok := remoteStatusMap[remote]; ok {
		return s
	}
	return domain.OrderStatusPaid
}

// IsPOSOrder reports whether the order carries the POS marker. Only the
// first "_pos_order" entry is considered and it must be exactly "yes".
func IsPOSOrder(o domain.RemoteOrder) bool {
	v, ok := o.MetaData.Get(domain.MetaPOSOrder)
	if !ok {
		return false
	}
	s, isString := v.(string)
	return isString && s == domain.MetaPOSOrderYes
}

// NormalizeOrder maps a remote order onto a mirror row. Unless skipFilter is
// set, orders that are not POS orders yield nil and must not be synced.
func NormalizeOrder(o domain.RemoteOrder, skipFilter bool) *domain.OrderRecord {
	if !skipFilter && !IsPOSOrder(o) {
		return nil
	}
	rec := &domain.OrderRecord{
		WooOrderID:    domain.FlexInt(o.ID),
		OrderNumber:   o.Number,
		Status:        MapStatus(o.Status),
		Total:         o.Total.Decimal,
		CustomerID:    domain.FlexID(o.CustomerID),
		OrderType:     o.MetaData.String(domain.MetaOrderType),
		Measurements:  o.MetaData.String(domain.MetaMeasurements),
		Notes:         o.CustomerNote,
		PaymentMethod: o.PaymentMethodTitle,
		CreatedAt:     utcTimestamp(o.DateCreatedGMT, o.DateCreated),
		UpdatedAt:     utcTimestamp(o.DateModifiedGMT, o.DateModified),
	}
	if rec.OrderNumber == "" && o.ID > 0 {
		rec.OrderNumber = strconv.FormatInt(o.ID, 10)
	}
	if rec.PaymentMethod == "" {
		rec.PaymentMethod = o.PaymentMethod
	}
	rec.AlterationCharge, rec.OtherCharge = feeCharges(o.FeeLines)
	if len(o.ShippingLines) > 0 {
		rec.CourierCharge = o.ShippingLines[0].Total.Decimal
	}
	if len(o.CouponLines) > 0 {
		c := o.CouponLines[0]
		rec.DiscountType = c.MetaData.String("discount_type")
		if rec.DiscountType == "" {
			rec.DiscountType = DiscountTypeCoupon
		}
		rec.DiscountAmount = c.Discount.Decimal
	}
	rec.Items = encodeItems(LineItems(o))
	return rec
}

// feeCharges only recognizes the two POS fee names; other fees are dropped.
func feeCharges(fees []domain.FeeLine) (alteration, other decimal.Decimal) {
	for _, f := range fees {
		switch f.Name {
		case domain.FeeAlteration:
			alteration = alteration.Add(f.Total.Decimal)
		case domain.FeeOther:
			other = other.Add(f.Total.Decimal)
		}
	}
	return alteration, other
}

// UnmappedFees returns the fee lines NormalizeOrder ignores.
func UnmappedFees(o domain.RemoteOrder) []domain.FeeLine {
	out := []domain.FeeLine{}
	for _, f := range o.FeeLines {
		if f.Name != domain.FeeAlteration && f.Name != domain.FeeOther {
			out = append(out, f)
		}
	}
	return out
}

// LineItems converts the remote line items, decoding any fabric breakdown.
func LineItems(o domain.RemoteOrder) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(o.LineItems))
	for _, it := range o.LineItems {
		li := domain.LineItem{
			ProductID:   it.ProductID,
			VariationID: it.VariationID,
			Name:        it.Name,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			Price:       it.Price.Decimal,
			Subtotal:    it.Subtotal.Decimal,
			Total:       it.Total.Decimal,
			Tax:         it.TotalTax.Decimal,
		}
		var comps []domain.FMSComponent
		if err := it.MetaData.Decode(domain.MetaFMSComponents, &comps); err == nil && len(comps) > 0 {
			li.Components = comps
		}
		items = append(items, li)
	}
	return items
}

func encodeItems(items []domain.LineItem) string {
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeItems reads back the serialized items column.
func DecodeItems(raw string) ([]domain.LineItem, error) {
	if strings.TrimSpace(raw) == "" {
		return []domain.LineItem{}, nil
	}
	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// utcTimestamp prefers the GMT field, marking it as UTC.
func utcTimestamp(gmt, local string) string {
	if gmt != "" {
		if strings.HasSuffix(gmt, "Z") {
			return gmt
		}
		return gmt + "Z"
	}
	return local
}
