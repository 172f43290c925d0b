package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrDuplicatePhone   = errors.New("customer with this phone already exists")
	ErrCustomerDeletion = errors.New("customers cannot be deleted from the POS")
	ErrUnauthorized     = errors.New("unauthorized")
)

// APIError is a non-2xx answer of a remote service. Body keeps the raw
// response text for logging. A 404 matches ErrNotFound.
type APIError struct {
	Service string
	Method  string
	Path    string
	Status  int
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s %s status %d: %s", e.Service, e.Method, e.Path, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}
