package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexInt is an integer column of the row store. Number columns come back as
// decimal strings ("12" or "12.0"); writes go out as plain JSON numbers.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = FlexInt(i)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("integer column %q: %w", s, err)
	}
	*n = FlexInt(d.IntPart())
	return nil
}

// FlexID returns nil for zero, the row store's empty value.
func FlexID(id int64) *FlexInt {
	if id == 0 {
		return nil
	}
	v := FlexInt(id)
	return &v
}
