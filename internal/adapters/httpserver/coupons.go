package httpserver

import (
	"net/http"

	"github.com/phenrril/possync/internal/domain"
)

func (s *Server) apiCoupons(w http.ResponseWriter, r *http.Request) {
	page, err := s.Coupons.List(r.Context(), domain.ListQuery{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 20),
		Search:  r.URL.Query().Get("search"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.Coupons.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) apiCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var c domain.Coupon
	if err := decode(r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Coupons.Create(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) apiUpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var c domain.Coupon
	if err := decode(r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Coupons.Update(r.Context(), id, c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Coupons.Delete(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
