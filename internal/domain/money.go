package domain

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency value as the remote API sends it: usually a quoted
// string ("120.00"), sometimes a bare number, occasionally "".
type Amount struct {
	decimal.Decimal
}

func NewAmount(v string) Amount {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return Amount{}
	}
	return Amount{d}
}

func AmountOf(d decimal.Decimal) Amount { return Amount{d} }

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	a.Decimal = d
	return nil
}

// MarshalJSON writes the two-decimal string form the remote API expects.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(2) + `"`), nil
}
