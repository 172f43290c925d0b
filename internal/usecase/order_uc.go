package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/validation"
)

const defaultMirrorPageSize = 20

type OrderUC struct {
	Remote domain.OrderAPI
	Mirror domain.MirrorTable[domain.OrderRecord]
	Sync   *SyncUC

	validate *validatorv10.Validate
}

func NewOrderUC(remote domain.OrderAPI, mirror domain.MirrorTable[domain.OrderRecord], sync *SyncUC) *OrderUC {
	return &OrderUC{Remote: remote, Mirror: mirror, Sync: sync, validate: validation.New()}
}

// PlacedOrder carries the authoritative remote order plus the outcome of the
// mirror write. Warning is set when the mirror could not be updated.
type PlacedOrder struct {
	Order   domain.RemoteOrder `json:"order"`
	Mirror  UpsertResult       `json:"mirror"`
	Warning string             `json:"warning,omitempty"`
}

// Create places the cart remotely and mirrors the new order. Only cart
// validation and the remote write can fail the call.
func (uc *OrderUC) Create(ctx context.Context, cart domain.Cart) (PlacedOrder, error) {
	if err := validation.Check(uc.validate, cart); err != nil {
		return PlacedOrder{}, err
	}
	o, err := uc.Remote.CreateOrder(ctx, BuildOrderPayload(cart))
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("create remote order: %w", err)
	}
	out := PlacedOrder{Order: o}
	out.Mirror, out.Warning = uc.mirror(ctx, o)
	return out, nil
}

func (uc *OrderUC) mirror(ctx context.Context, o domain.RemoteOrder) (UpsertResult, string) {
	rec := NormalizeOrder(o, false)
	if rec == nil {
		log.Warn().Int64("woo_order_id", o.ID).Msg("created order lost its POS marker")
		return UpsertResult{}, "order is not marked as a POS order and was not mirrored"
	}
	res, err := uc.Sync.UpsertOrder(ctx, *rec)
	if err != nil {
		return UpsertResult{}, err.Error()
	}
	return res, res.Warning()
}

type OrderListFilter struct {
	Status     string
	CustomerID int64
	OrderType  string
	Search     string
	Page       int
	Size       int
}

// List reads the mirror, newest first.
func (uc *OrderUC) List(ctx context.Context, f OrderListFilter) (domain.RowPage[domain.OrderRecord], error) {
	if f.Size <= 0 {
		f.Size = defaultMirrorPageSize
	}
	filters := map[string]string{}
	if f.Status != "" {
		filters["status"] = f.Status
	}
	if f.CustomerID > 0 {
		filters["customer_id"] = strconv.FormatInt(f.CustomerID, 10)
	}
	if f.OrderType != "" {
		filters["order_type"] = f.OrderType
	}
	return uc.Mirror.List(ctx, domain.RowQuery{
		Page:    f.Page,
		Size:    f.Size,
		OrderBy: "-created_at",
		Search:  f.Search,
		Filters: filters,
	})
}

// OrderDetail is the remote order together with its mirror projection.
// UnmappedFees lists fee lines that no charge bucket accounts for.
type OrderDetail struct {
	Order        domain.RemoteOrder  `json:"order"`
	IsPOS        bool                `json:"is_pos"`
	Record       *domain.OrderRecord `json:"record"`
	Items        []domain.LineItem   `json:"items"`
	UnmappedFees []domain.FeeLine    `json:"unmapped_fees"`
}

func (uc *OrderUC) Get(ctx context.Context, id int64) (OrderDetail, error) {
	if id <= 0 {
		return OrderDetail{}, fmt.Errorf("%w: order id must be positive", domain.ErrValidation)
	}
	o, err := uc.Remote.GetOrder(ctx, id)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{
		Order:        o,
		IsPOS:        IsPOSOrder(o),
		Record:       NormalizeOrder(o, true),
		Items:        LineItems(o),
		UnmappedFees: UnmappedFees(o),
	}, nil
}

// Complete marks the order completed remotely, then patches the mirror status.
func (uc *OrderUC) Complete(ctx context.Context, id int64) (PlacedOrder, error) {
	if id <= 0 {
		return PlacedOrder{}, fmt.Errorf("%w: order id must be positive", domain.ErrValidation)
	}
	o, err := uc.Remote.UpdateOrderStatus(ctx, id, "completed")
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("complete remote order %d: %w", id, err)
	}
	out := PlacedOrder{Order: o}
	res, err := uc.Sync.PatchStatus(ctx, id, o.Status)
	if err != nil {
		out.Warning = err.Error()
		return out, nil
	}
	out.Mirror, out.Warning = res, res.Warning()
	return out, nil
}

func (uc *OrderUC) AddNote(ctx context.Context, id int64, note string, toCustomer bool) (domain.OrderNote, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return domain.OrderNote{}, fmt.Errorf("%w: note is empty", domain.ErrValidation)
	}
	return uc.Remote.AddOrderNote(ctx, id, domain.OrderNote{Note: note, CustomerNote: toCustomer})
}
