package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/phenrril/possync/internal/domain"
)

// FMSUC answers read-only questions about the fabric breakdown stored on
// POS line items.
type FMSUC struct {
	Orders   domain.OrderAPI
	PageSize int
}

type ItemComponents struct {
	LineItemID  int64                 `json:"line_item_id"`
	Name        string                `json:"name"`
	Quantity    int                   `json:"quantity"`
	Components  []domain.FMSComponent `json:"components"`
	MetersTotal decimal.Decimal       `json:"meters_total"`
}

type OrderComponents struct {
	OrderID     int64            `json:"order_id"`
	Number      string           `json:"number"`
	IsPOS       bool             `json:"is_pos"`
	Items       []ItemComponents `json:"items"`
	MetersTotal decimal.Decimal  `json:"meters_total"`
}

// ComponentUsage aggregates one component over several orders.
type ComponentUsage struct {
	ComponentID int64           `json:"component_id,omitempty"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Meters      decimal.Decimal `json:"meters"`
	Orders      int             `json:"orders"`
}

func (uc *FMSUC) OrderComponents(ctx context.Context, id int64) (OrderComponents, error) {
	if id <= 0 {
		return OrderComponents{}, fmt.Errorf("%w: order id must be positive", domain.ErrValidation)
	}
	o, err := uc.Orders.GetOrder(ctx, id)
	if err != nil {
		return OrderComponents{}, err
	}
	return orderComponents(o), nil
}

func orderComponents(o domain.RemoteOrder) OrderComponents {
	out := OrderComponents{OrderID: o.ID, Number: o.Number, IsPOS: IsPOSOrder(o), Items: []ItemComponents{}}
	for _, it := range o.LineItems {
		var comps []domain.FMSComponent
		if err := it.MetaData.Decode(domain.MetaFMSComponents, &comps); err != nil || len(comps) == 0 {
			continue
		}
		ic := ItemComponents{LineItemID: it.ID, Name: it.Name, Quantity: it.Quantity, Components: comps}
		for _, c := range comps {
			ic.MetersTotal = ic.MetersTotal.Add(c.MetersTotal)
		}
		out.MetersTotal = out.MetersTotal.Add(ic.MetersTotal)
		out.Items = append(out.Items, ic)
	}
	return out
}

// Summary adds up component meters over the POS orders of the newest page.
func (uc *FMSUC) Summary(ctx context.Context) ([]ComponentUsage, error) {
	size := uc.PageSize
	if size <= 0 {
		size = DefaultSyncPageSize
	}
	page, err := uc.Orders.ListOrders(ctx, domain.ListQuery{Page: 1, PerPage: size, OrderBy: "date", Order: "desc"})
	if err != nil {
		return nil, err
	}
	usage := map[string]*ComponentUsage{}
	for _, o := range page.Items {
		if !IsPOSOrder(o) {
			continue
		}
		seen := map[string]bool{}
		for _, it := range orderComponents(o).Items {
			for _, c := range it.Components {
				key := "name:" + c.Name
				if c.ComponentID > 0 {
					key = "id:" + strconv.FormatInt(c.ComponentID, 10)
				}
				u, ok := usage[key]
				if !ok {
					u = &ComponentUsage{ComponentID: c.ComponentID, Name: c.Name, SKU: c.SKU}
					usage[key] = u
				}
				u.Meters = u.Meters.Add(c.MetersTotal)
				if !seen[key] {
					u.Orders++
					seen[key] = true
				}
			}
		}
	}
	out := make([]ComponentUsage, 0, len(usage))
	for _, u := range usage {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Meters.Equal(out[j].Meters) {
			return out[i].Meters.GreaterThan(out[j].Meters)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
