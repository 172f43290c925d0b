package usecase

import (
	"strings"
	"time"

	"github.com/phenrril/possync/internal/domain"
)

const addressSeparator = ", "

// NormalizeCustomer maps a remote customer, or a partial update payload, onto
// a mirror row. Billing values win over top level and shipping values.
// CreatedAt is only filled for customers the remote system has not assigned
// an id yet, or when the remote record carries its creation time.
func NormalizeCustomer(c domain.RemoteCustomer, now time.Time) domain.CustomerRecord {
	b, s := c.Billing, c.Shipping
	addr := b
	if addressEmpty(addr) {
		addr = s
	}
	rec := domain.CustomerRecord{
		WooCustomerID: domain.FlexID(c.ID),
		FirstName:     firstNonEmpty(b.FirstName, c.FirstName, s.FirstName),
		LastName:      firstNonEmpty(b.LastName, c.LastName, s.LastName),
		Phone:         strings.TrimSpace(firstNonEmpty(b.Phone, c.Phone, s.Phone)),
		Email:         strings.TrimSpace(firstNonEmpty(b.Email, c.Email)),
		Address:       FlattenAddress(addr),
		AddressLine2:  strings.TrimSpace(addr.Address2),
		City:          strings.TrimSpace(addr.City),
		State:         strings.TrimSpace(addr.State),
		Postcode:      strings.TrimSpace(addr.Postcode),
		Country:       strings.TrimSpace(addr.Country),
		CustomerType:  c.MetaData.String(domain.MetaCustomerType),
		UpdatedAt:     now.UTC().Format(time.RFC3339),
	}
	if rec.CustomerType == "" {
		rec.CustomerType = domain.DefaultCustomerType
	}
	switch {
	case c.DateCreatedGMT != "" || c.DateCreated != "":
		rec.CreatedAt = utcTimestamp(c.DateCreatedGMT, c.DateCreated)
	case c.ID == 0:
		rec.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	return rec
}

// FlattenAddress joins the non-empty address parts with ", ".
func FlattenAddress(a domain.Address) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Address1, a.Address2, a.City, a.State, a.Postcode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, addressSeparator)
}

func addressEmpty(a domain.Address) bool {
	return FlattenAddress(a) == ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
