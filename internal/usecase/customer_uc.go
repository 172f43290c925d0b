package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/validation"
)

// CustomerInput is a customer registered at the POS.
type CustomerInput struct {
	FirstName    string         `json:"first_name" validate:"required"`
	LastName     string         `json:"last_name"`
	Phone        string         `json:"phone" validate:"required,phone,min=5,max=20"`
	Email        string         `json:"email" validate:"omitempty,email"`
	Address      domain.Address `json:"address"`
	CustomerType string         `json:"customer_type"`
}

// CustomerPatch changes only the fields that are set.
type CustomerPatch struct {
	FirstName    *string         `json:"first_name" validate:"omitempty,min=1"`
	LastName     *string         `json:"last_name"`
	Phone        *string         `json:"phone" validate:"omitempty,phone,min=5,max=20"`
	Email        *string         `json:"email" validate:"omitempty,email"`
	Address      *domain.Address `json:"address"`
	CustomerType *string         `json:"customer_type"`
}

type CustomerResult struct {
	Customer domain.CustomerRecord `json:"customer"`
	Mirror   UpsertResult          `json:"mirror"`
	Warning  string                `json:"warning,omitempty"`
}

type CustomerUC struct {
	Remote      domain.CustomerAPI
	Mirror      domain.MirrorTable[domain.CustomerRecord]
	Sync        *SyncUC
	EmailDomain string
	Now         domain.Clock

	validate *validatorv10.Validate
}

func NewCustomerUC(remote domain.CustomerAPI, mirror domain.MirrorTable[domain.CustomerRecord], sync *SyncUC, emailDomain string) *CustomerUC {
	return &CustomerUC{
		Remote:      remote,
		Mirror:      mirror,
		Sync:        sync,
		EmailDomain: emailDomain,
		Now:         time.Now,
		validate:    validation.New(),
	}
}

func (uc *CustomerUC) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}

// Create registers a customer. A phone already present in the mirror is
// rejected with ErrDuplicatePhone before anything is written, and the
// existing row is returned.
func (uc *CustomerUC) Create(ctx context.Context, in CustomerInput) (CustomerResult, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validation.Check(uc.validate, in); err != nil {
		return CustomerResult{}, err
	}
	existing, err := uc.Mirror.FindBy(ctx, "phone", in.Phone)
	switch {
	case err == nil:
		return CustomerResult{Customer: existing}, domain.ErrDuplicatePhone
	case !errors.Is(err, domain.ErrNotFound):
		log.Warn().Err(err).Str("phone", in.Phone).Msg("duplicate phone check unavailable")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = uc.placeholderEmail(in.Phone)
	}
	billing := in.Address
	billing.FirstName, billing.LastName = in.FirstName, in.LastName
	billing.Phone, billing.Email = in.Phone, email
	remote := domain.RemoteCustomer{
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Phone,
		Billing:   billing,
		Shipping:  in.Address,
		MetaData:  domain.MetaList{}.With(domain.MetaCustomerType, firstNonEmpty(in.CustomerType, domain.DefaultCustomerType)),
	}
	created, err := uc.Remote.CreateCustomer(ctx, remote)
	if err != nil {
		return CustomerResult{}, fmt.Errorf("create remote customer: %w", err)
	}
	return uc.mirror(ctx, created), nil
}

func (uc *CustomerUC) placeholderEmail(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	local := digits.String()
	if local == "" {
		local = "walkin" + strconv.FormatInt(uc.now().Unix(), 10)
	}
	return local + "@" + uc.EmailDomain
}

func (uc *CustomerUC) mirror(ctx context.Context, c domain.RemoteCustomer) CustomerResult {
	rec := NormalizeCustomer(c, uc.now())
	row, res, err := uc.Sync.UpsertCustomer(ctx, rec)
	if err != nil {
		return CustomerResult{Customer: rec, Warning: err.Error()}
	}
	return CustomerResult{Customer: row, Mirror: res, Warning: res.Warning()}
}

type CustomerListQuery struct {
	Search string
	Type   string
	Page   int
	Size   int
}

func (uc *CustomerUC) List(ctx context.Context, q CustomerListQuery) (domain.RowPage[domain.CustomerRecord], error) {
	if q.Size <= 0 {
		q.Size = defaultMirrorPageSize
	}
	rq := domain.RowQuery{Page: q.Page, Size: q.Size, OrderBy: "-created_at", Search: q.Search}
	if q.Type != "" {
		rq.Filters = map[string]string{"customer_type": q.Type}
	}
	return uc.Mirror.List(ctx, rq)
}

// Get reads the mirror row and falls back to the remote record.
func (uc *CustomerUC) Get(ctx context.Context, id int64) (domain.CustomerRecord, error) {
	if id <= 0 {
		return domain.CustomerRecord{}, fmt.Errorf("%w: customer id must be positive", domain.ErrValidation)
	}
	row, err := uc.Mirror.FindBy(ctx, "woo_customer_id", strconv.FormatInt(id, 10))
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Warn().Err(err).Int64("woo_customer_id", id).Msg("mirror lookup failed, reading remote")
	}
	c, err := uc.Remote.GetCustomer(ctx, id)
	if err != nil {
		return domain.CustomerRecord{}, err
	}
	return NormalizeCustomer(c, uc.now()), nil
}

// Update sends the changed fields to the remote system and refreshes the mirror.
func (uc *CustomerUC) Update(ctx context.Context, id int64, p CustomerPatch) (CustomerResult, error) {
	if id <= 0 {
		return CustomerResult{}, fmt.Errorf("%w: customer id must be positive", domain.ErrValidation)
	}
	if p.Phone != nil {
		phone := strings.TrimSpace(*p.Phone)
		if phone == "" {
			return CustomerResult{}, fmt.Errorf("%w: phone cannot be cleared", domain.ErrValidation)
		}
		p.Phone = &phone
	}
	if err := validation.Check(uc.validate, p); err != nil {
		return CustomerResult{}, err
	}
	var in domain.RemoteCustomer
	if p.Address != nil {
		in.Billing = *p.Address
		in.Shipping = *p.Address
	}
	if p.FirstName != nil {
		in.FirstName, in.Billing.FirstName = *p.FirstName, *p.FirstName
	}
	if p.LastName != nil {
		in.LastName, in.Billing.LastName = *p.LastName, *p.LastName
	}
	if p.Email != nil {
		in.Email, in.Billing.Email = *p.Email, *p.Email
	}
	if p.Phone != nil {
		phone := *p.Phone
		if other, err := uc.Mirror.FindBy(ctx, "phone", phone); err == nil &&
			(other.WooCustomerID == nil || int64(*other.WooCustomerID) != id) {
			return CustomerResult{Customer: other}, domain.ErrDuplicatePhone
		}
		in.Billing.Phone = phone
	}
	if p.CustomerType != nil {
		in.MetaData = in.MetaData.With(domain.MetaCustomerType, *p.CustomerType)
	}
	updated, err := uc.Remote.UpdateCustomer(ctx, id, in)
	if err != nil {
		return CustomerResult{}, fmt.Errorf("update remote customer %d: %w", id, err)
	}
	return uc.mirror(ctx, updated), nil
}

// Delete is refused: customers are never removed from the POS.
func (uc *CustomerUC) Delete(ctx context.Context, id int64) error {
	return domain.ErrCustomerDeletion
}
