package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phenrril/possync/internal/domain"
)

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.Catalog.List(r.Context(), domain.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", 0),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) apiProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Catalog.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiProductBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := s.Catalog.BySKU(r.Context(), strings.TrimSpace(chi.URLParam(r, "sku")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiVariations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	vars, err := s.Catalog.ProductVariations(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vars)
}

// apiCategories serves the cached list; ?refresh=1 drops the cache first.
func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" {
		s.Catalog.InvalidateCategories()
	}
	cats, err := s.Catalog.ListCategories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}
