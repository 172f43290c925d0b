package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/phenrril/possync/internal/domain"
)

// New returns a validator that reports json field names and knows the
// struct-level rules of mirror rows and carts.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", phoneRule)
	v.RegisterStructValidation(orderRecordStructValidation, domain.OrderRecord{})
	v.RegisterStructValidation(cartStructValidation, domain.Cart{})
	v.RegisterStructValidation(cartItemStructValidation, domain.CartItem{})
	return v
}

// phoneRule accepts digits with the usual separators and needs at least one
// digit, so a run of spaces never reaches a phone lookup.
func phoneRule(fl validatorv10.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(" +-().", r):
		default:
			return false
		}
	}
	return digits > 0
}

func orderRecordStructValidation(sl validatorv10.StructLevel) {
	rec := sl.Current().Interface().(domain.OrderRecord)
	if rec.Total.IsNegative() {
		sl.ReportError(rec.Total, "total", "Total", "non_negative", rec.Total.String())
	}
}

func cartStructValidation(sl validatorv10.StructLevel) {
	cart := sl.Current().Interface().(domain.Cart)
	if cart.Charges.Alteration.IsNegative() {
		sl.ReportError(cart.Charges.Alteration, "alteration", "Alteration", "non_negative", "")
	}
	if cart.Charges.Courier.IsNegative() {
		sl.ReportError(cart.Charges.Courier, "courier", "Courier", "non_negative", "")
	}
	if cart.Charges.Other.IsNegative() {
		sl.ReportError(cart.Charges.Other, "other", "Other", "non_negative", "")
	}
}

func cartItemStructValidation(sl validatorv10.StructLevel) {
	it := sl.Current().Interface().(domain.CartItem)
	if it.Price != nil && it.Price.IsNegative() {
		sl.ReportError(*it.Price, "price", "Price", "non_negative", "")
	}
	for _, c := range it.Components {
		if !c.MetersPerUnit.IsPositive() {
			sl.ReportError(c.MetersPerUnit, "meters_per_unit", "MetersPerUnit", "positive", c.Name)
			return
		}
	}
}

// Check validates s and wraps any failure in domain.ErrValidation with one
// "field: rule" message per violation.
func Check(v *validatorv10.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msg := fe.Namespace() + ": " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}
