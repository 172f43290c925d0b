package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/phenrril/possync/internal/domain"
)

const maxErrorBody = 4 << 10

// Decode closes res.Body. Status >= 300 becomes a *domain.APIError; otherwise
// the body is decoded into out when out is not nil.
func Decode(service string, res *http.Response, out any) error {
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &domain.APIError{
			Service: service,
			Method:  res.Request.Method,
			Path:    res.Request.URL.Path,
			Status:  res.StatusCode,
			Body:    string(body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}
	return nil
}
