package httpserver

import (
	"net/http"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/usecase"
)

func (s *Server) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var cart domain.Cart
	if err := decode(r, &cart); err != nil {
		s.fail(w, r, err)
		return
	}
	placed, err := s.Orders.Create(r.Context(), cart)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, placed)
}

func (s *Server) apiListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.Orders.List(r.Context(), usecase.OrderListFilter{
		Status:     q.Get("status"),
		CustomerID: queryInt64(r, "customer_id"),
		OrderType:  q.Get("order_type"),
		Search:     q.Get("search"),
		Page:       queryInt(r, "page", 1),
		Size:       queryInt(r, "size", 0),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Orders.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) apiCompleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.Orders.Complete(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type noteRequest struct {
	Note         string `json:"note"`
	CustomerNote bool   `json:"customer_note"`
}

func (s *Server) apiOrderNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req noteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.Orders.AddNote(r.Context(), id, req.Note, req.CustomerNote)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) apiOrderFMS(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.FMS.OrderComponents(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) apiFMSSummary(w http.ResponseWriter, r *http.Request) {
	usage, err := s.FMS.Summary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
