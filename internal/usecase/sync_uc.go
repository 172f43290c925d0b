package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/moby/locker"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/validation"
)

type UpsertAction string

const (
	ActionCreated UpsertAction = "created"
	ActionUpdated UpsertAction = "updated"
)

// UpsertResult reports which branch an upsert took. A failed mirror write is
// reported with OK=false and Err set instead of being returned as an error.
type UpsertResult struct {
	Action UpsertAction `json:"action"`
	OK     bool         `json:"ok"`
	RowID  int64        `json:"row_id,omitempty"`
	Err    error        `json:"-"`
}

func (r UpsertResult) Warning() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// SyncUC mirrors orders and customers into the row store keyed by their
// foreign id. Upserts for the same key are serialized within the process;
// writers in other processes can still race between lookup and write.
type SyncUC struct {
	Orders    domain.MirrorTable[domain.OrderRecord]
	Customers domain.MirrorTable[domain.CustomerRecord]
	Now       domain.Clock

	validate *validatorv10.Validate
	locks    *locker.Locker
}

func NewSyncUC(orders domain.MirrorTable[domain.OrderRecord], customers domain.MirrorTable[domain.CustomerRecord]) *SyncUC {
	return &SyncUC{
		Orders:    orders,
		Customers: customers,
		Now:       time.Now,
		validate:  validation.New(),
		locks:     locker.New(),
	}
}

func (uc *SyncUC) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}

// UpsertOrder validates rec and writes it, patching the existing row for the
// same woo_order_id when there is one. Only validation fails with an error.
func (uc *SyncUC) UpsertOrder(ctx context.Context, rec domain.OrderRecord) (UpsertResult, error) {
	if err := validation.Check(uc.validate, rec); err != nil {
		return UpsertResult{}, err
	}
	id := strconv.FormatInt(int64(rec.WooOrderID), 10)
	key := "order:" + id
	uc.locks.Lock(key)
	defer func() { _ = uc.locks.Unlock(key) }()

	if rec.UpdatedAt == "" {
		rec.UpdatedAt = uc.now().UTC().Format(time.RFC3339)
	}
	rec.RowID = 0

	existing, err := uc.Orders.FindBy(ctx, "woo_order_id", id)
	switch {
	case err == nil:
		row, err := uc.Orders.Update(ctx, existing.RowID, rec)
		if err != nil {
			return uc.soft(ActionUpdated, existing.RowID, err, "woo_order_id", id), nil
		}
		return UpsertResult{Action: ActionUpdated, OK: true, RowID: row.RowID}, nil
	case errors.Is(err, domain.ErrNotFound):
		row, err := uc.Orders.Create(ctx, rec)
		if err != nil {
			return uc.soft(ActionCreated, 0, err, "woo_order_id", id), nil
		}
		return UpsertResult{Action: ActionCreated, OK: true, RowID: row.RowID}, nil
	default:
		return uc.soft(ActionCreated, 0, err, "woo_order_id", id), nil
	}
}

// UpsertCustomer keys on woo_customer_id, or on phone for customers that do
// not exist remotely yet. The update branch never rewrites created_at.
func (uc *SyncUC) UpsertCustomer(ctx context.Context, rec domain.CustomerRecord) (domain.CustomerRecord, UpsertResult, error) {
	rec.Phone = strings.TrimSpace(rec.Phone)
	if err := validation.Check(uc.validate, rec); err != nil {
		return domain.CustomerRecord{}, UpsertResult{}, err
	}
	field, value := "phone", rec.Phone
	if rec.WooCustomerID != nil && *rec.WooCustomerID > 0 {
		field, value = "woo_customer_id", strconv.FormatInt(int64(*rec.WooCustomerID), 10)
	}
	key := "customer:" + field + ":" + value
	uc.locks.Lock(key)
	defer func() { _ = uc.locks.Unlock(key) }()

	if rec.UpdatedAt == "" {
		rec.UpdatedAt = uc.now().UTC().Format(time.RFC3339)
	}
	rec.RowID = 0

	existing, err := uc.Customers.FindBy(ctx, field, value)
	switch {
	case err == nil:
		patch := rec
		patch.CreatedAt = ""
		if patch.WooCustomerID == nil {
			patch.WooCustomerID = existing.WooCustomerID
		}
		row, err := uc.Customers.Update(ctx, existing.RowID, patch)
		if err != nil {
			return rec, uc.soft(ActionUpdated, existing.RowID, err, field, value), nil
		}
		return row, UpsertResult{Action: ActionUpdated, OK: true, RowID: row.RowID}, nil
	case errors.Is(err, domain.ErrNotFound):
		if rec.CreatedAt == "" {
			rec.CreatedAt = uc.now().UTC().Format(time.RFC3339)
		}
		row, err := uc.Customers.Create(ctx, rec)
		if err != nil {
			return rec, uc.soft(ActionCreated, 0, err, field, value), nil
		}
		return row, UpsertResult{Action: ActionCreated, OK: true, RowID: row.RowID}, nil
	default:
		return rec, uc.soft(ActionCreated, 0, err, field, value), nil
	}
}

var narrowStatusMap = map[string]domain.OrderStatus{
	"completed":  domain.OrderStatusCompleted,
	"cancelled":  domain.OrderStatusCancelled,
	"processing": domain.OrderStatusPaid,
	"pending":    domain.OrderStatusPaid,
	"on-hold":    domain.OrderStatusPaid,
}

// PatchStatus writes only status and updated_at on the mirror row of an order.
func (uc *SyncUC) PatchStatus(ctx context.Context, wooOrderID int64, remoteStatus string) (UpsertResult, error) {
	status, ok := narrowStatusMap[remoteStatus]
	if !ok {
		return UpsertResult{}, fmt.Errorf("%w: status %q cannot be patched", domain.ErrValidation, remoteStatus)
	}
	if wooOrderID <= 0 {
		return UpsertResult{}, fmt.Errorf("%w: woo_order_id must be positive", domain.ErrValidation)
	}
	id := strconv.FormatInt(wooOrderID, 10)
	key := "order:" + id
	uc.locks.Lock(key)
	defer func() { _ = uc.locks.Unlock(key) }()

	existing, err := uc.Orders.FindBy(ctx, "woo_order_id", id)
	if err != nil {
		return uc.soft(ActionUpdated, 0, err, "woo_order_id", id), nil
	}
	patch := domain.StatusPatch{Status: status, UpdatedAt: uc.now().UTC().Format(time.RFC3339)}
	if _, err := uc.Orders.Update(ctx, existing.RowID, patch); err != nil {
		return uc.soft(ActionUpdated, existing.RowID, err, "woo_order_id", id), nil
	}
	return UpsertResult{Action: ActionUpdated, OK: true, RowID: existing.RowID}, nil
}

func (uc *SyncUC) soft(action UpsertAction, rowID int64, err error, field, value string) UpsertResult {
	ev := log.Error().Err(err).Str(field, value).Str("action", string(action))
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		ev = ev.Int("status", apiErr.Status).Str("body", apiErr.Body)
	}
	ev.Msg("mirror upsert failed")
	return UpsertResult{Action: action, OK: false, RowID: rowID, Err: err}
}
