package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/possync/internal/domain"
	"github.com/phenrril/possync/internal/usecase"
)

const maxBodyBytes = 1 << 20

// Deps are the use cases behind the POS API. Trigger queues a reconciliation
// task by name outside its schedule.
type Deps struct {
	Orders    *usecase.OrderUC
	Customers *usecase.CustomerUC
	Catalog   *usecase.CatalogUC
	Coupons   *usecase.CouponUC
	Reports   *usecase.ReportUC
	FMS       *usecase.FMSUC
	Sync      *usecase.ReconcileUC
	Trigger   func(task string) error
	Auth      *Auth
}

type Options struct {
	Production bool
	PerSecond  float64
	Burst      int
}

type Server struct {
	Deps
	router     chi.Router
	production bool
}

func New(d Deps, o Options) http.Handler {
	s := &Server{Deps: d, router: chi.NewRouter(), production: o.Production}
	s.routes()
	return Chain(s.router,
		middleware.RealIP,
		middleware.RequestID,
		echoRequestID,
		Logging,
		Recovery,
		RateLimit(o.PerSecond, o.Burst),
	)
}

func (s *Server) routes() {
	r := s.router
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.Auth.Require)

			r.Get("/products", s.apiProducts)
			r.Get("/products/sku/{sku}", s.apiProductBySKU)
			r.Get("/products/{id}", s.apiProduct)
			r.Get("/products/{id}/variations", s.apiVariations)
			r.Get("/categories", s.apiCategories)

			r.Post("/orders", s.apiCreateOrder)
			r.Get("/orders", s.apiListOrders)
			r.Get("/orders/{id}", s.apiOrder)
			r.Post("/orders/{id}/complete", s.apiCompleteOrder)
			r.Post("/orders/{id}/notes", s.apiOrderNote)
			r.Get("/orders/{id}/fms", s.apiOrderFMS)
			r.Get("/fms/summary", s.apiFMSSummary)

			r.Post("/customers", s.apiCreateCustomer)
			r.Get("/customers", s.apiListCustomers)
			r.Get("/customers/{id}", s.apiCustomer)
			r.Patch("/customers/{id}", s.apiUpdateCustomer)
			r.Delete("/customers/{id}", s.apiDeleteCustomer)

			r.Get("/coupons", s.apiCoupons)
			r.Post("/coupons", s.apiCreateCoupon)
			r.Get("/coupons/{id}", s.apiCoupon)
			r.Put("/coupons/{id}", s.apiUpdateCoupon)
			r.Delete("/coupons/{id}", s.apiDeleteCoupon)

			r.Get("/reports/dashboard", s.apiDashboard)
			r.Get("/reports/sales", s.apiSales)
			r.Get("/reports/top-sellers", s.apiTopSellers)
			r.Get("/reports/totals/{kind}", s.apiTotals)

			r.Get("/sync/runs", s.apiSyncRuns)
			r.Post("/sync/{task}", s.apiTriggerSync)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// fail maps err onto a status code. Details are withheld in production.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.failWith(w, r, err, nil)
}

func (s *Server) failWith(w http.ResponseWriter, r *http.Request, err error, data any) {
	code, msg := classify(err)
	body := errorBody{Error: msg, Data: data}
	if !s.production {
		body.Detail = err.Error()
	}
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, body)
}

func classify(err error) (int, string) {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrDuplicatePhone):
		return http.StatusConflict, "a customer with this phone already exists"
	case errors.Is(err, domain.ErrCustomerDeletion):
		return http.StatusMethodNotAllowed, "customers cannot be deleted"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "upstream service error"
	}
	return http.StatusInternalServerError, "internal error"
}

// decode reads a JSON body; malformed input is a validation error.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Join(domain.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Join(domain.ErrValidation, errors.New("id must be a positive integer"))
	}
	return id, nil
}

// queryInt returns def for a missing or malformed parameter.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func queryInt64(r *http.Request, key string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return v
}
