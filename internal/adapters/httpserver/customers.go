package httpserver

import (
	"errors"
	"net/http"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/usecase"
)

// apiCreateCustomer answers 409 with the existing row when the phone is taken.
func (s *Server) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in usecase.CustomerInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Customers.Create(r.Context(), in)
	if errors.Is(err, domain.ErrDuplicatePhone) {
		s.failWith(w, r, err, res.Customer)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.Customers.List(r.Context(), usecase.CustomerListQuery{
		Search: q.Get("search"),
		Type:   q.Get("customer_type"),
		Page:   queryInt(r, "page", 1),
		Size:   queryInt(r, "size", 0),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.Customers.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) apiUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var p usecase.CustomerPatch
	if err := decode(r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Customers.Update(r.Context(), id, p)
	if errors.Is(err, domain.ErrDuplicatePhone) {
		s.failWith(w, r, err, res.Customer)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) apiDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.fail(w, r, s.Customers.Delete(r.Context(), id))
}
