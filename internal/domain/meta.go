package domain

import (
	"encoding/json"
	"fmt"
)

// Metadata keys the POS reads and writes on remote records.
const (
	MetaPOSOrder      = "_pos_order"
	MetaPOSOrderYes   = "yes"
	MetaCustomerType  = "customer_type"
	MetaOrderType     = "order_type"
	MetaMeasurements  = "measurements"
	MetaFMSComponents = "_hr_fms_components"
)

// MetaData is one entry of the remote system's key/value extension list.
type MetaData struct {
	ID    int64  `json:"id,omitempty"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// MetaList keeps the wire order of the extension list. Keys may repeat;
// lookups return the first match.
type MetaList []MetaData

func (m MetaList) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// String returns the first value for key when it is a string, or "" otherwise.
func (m MetaList) String(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Decode unmarshals the first value for key into out. The value may be a
// JSON document stored as a string or an already decoded structure.
func (m MetaList) Decode(key string, out any) error {
	v, ok := m.Get(key)
	if !ok {
		return ErrNotFound
	}
	var raw []byte
	switch val := v.(type) {
	case string:
		raw = []byte(val)
	case json.RawMessage:
		raw = val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("meta %s: %w", key, err)
		}
		raw = b
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("meta %s: %w", key, err)
	}
	return nil
}

// With returns a copy of the list with key appended.
func (m MetaList) With(key string, value any) MetaList {
	out := make(MetaList, 0, len(m)+1)
	out = append(out, m...)
	return append(out, MetaData{Key: key, Value: value})
}
