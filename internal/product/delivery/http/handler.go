package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/product/usecase/query"
	"github.com/tair/product-catalog/internal/web"
	"github.com/tair/product-catalog/pkg/logger"
)

const listPath = "/products"

// ProductHandler serves the product pages using the CQRS handlers
type ProductHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	getProductHandler    *query.GetProductHandler
	listHandler          *query.ListProductsHandler
	byGenreHandler       *query.ListByGenreHandler
	byReleaseDateHandler *query.ListByReleaseDateHandler

	repo           domain.ProductRepository
	views          *web.Renderer
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
}

// NewProductHandler builds every command and query handler from repo (manual DI)
func NewProductHandler(repo domain.ProductRepository, publisher command.EventPublisher, views *web.Renderer, reg prometheus.Registerer) *ProductHandler {
	return NewProductHandlerWithDI(
		command.NewCreateProductHandler(repo, publisher),
		command.NewUpdateProductHandler(repo, publisher),
		command.NewDeleteProductHandler(repo, publisher),
		query.NewGetProductHandler(repo),
		query.NewListProductsHandler(repo),
		query.NewListByGenreHandler(repo),
		query.NewListByReleaseDateHandler(repo),
		repo, views, reg,
	)
}

// NewProductHandlerWithDI is the constructor used by Wire
func NewProductHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	byGenreHandler *query.ListByGenreHandler,
	byReleaseDateHandler *query.ListByReleaseDateHandler,
	repo domain.ProductRepository,
	views *web.Renderer,
	reg prometheus.Registerer,
) *ProductHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to the catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "catalog_service_request_duration_summary",
			Help: "Summary of request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_service_total_products",
			Help: "Total number of products in the catalog",
		},
	)

	reg.MustRegister(requestCounter, requestLatency, requestSummary, totalProducts)

	return &ProductHandler{
		createHandler:        createHandler,
		updateHandler:        updateHandler,
		deleteHandler:        deleteHandler,
		getProductHandler:    getProductHandler,
		listHandler:          listHandler,
		byGenreHandler:       byGenreHandler,
		byReleaseDateHandler: byReleaseDateHandler,
		repo:                 repo,
		views:                views,
		requestCounter:       requestCounter,
		requestLatency:       requestLatency,
		requestSummary:       requestSummary,
		totalProducts:        totalProducts,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ProductHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *ProductHandler) route(endpoint string, fn web.HandlerFunc) http.HandlerFunc {
	return h.metricsMiddleware(endpoint, h.views.Handle(fn))
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/products", h.route("/products", h.Index)).Methods(http.MethodGet)
	router.HandleFunc("/products/details/{id:[0-9]+}", h.route("/products/details/{id}", h.Details)).Methods(http.MethodGet)

	router.HandleFunc("/products/create", h.route("/products/create", h.CreateForm)).Methods(http.MethodGet)
	router.HandleFunc("/products/create", h.route("/products/create", h.Create)).Methods(http.MethodPost)

	router.HandleFunc("/products/edit/{id:[0-9]+}", h.route("/products/edit/{id}", h.EditForm)).Methods(http.MethodGet)
	router.HandleFunc("/products/edit/{id:[0-9]+}", h.route("/products/edit/{id}", h.Edit)).Methods(http.MethodPost)

	router.HandleFunc("/products/delete/{id:[0-9]+}", h.route("/products/delete/{id}", h.Delete)).Methods(http.MethodGet)
	router.HandleFunc("/products/delete/{id:[0-9]+}", h.route("/products/delete/{id}", h.DeleteConfirmed)).Methods(http.MethodPost)

	router.HandleFunc("/products/bygenre/{genre}", h.route("/products/bygenre/{genre}", h.ByGenre)).Methods(http.MethodGet)
	router.HandleFunc("/products/released/{year:[0-9]+}", h.route("/products/released/{year}", h.ByReleaseDate)).Methods(http.MethodGet)
	router.HandleFunc("/products/released/{year:[0-9]+}/{month:[0-9]+}", h.route("/products/released/{year}/{month}", h.ByReleaseDate)).Methods(http.MethodGet)
}

// Index handles GET /products
func (h *ProductHandler) Index(r *http.Request) (web.Result, error) {
	q := query.ListProductsQuery{
		Genre:        r.URL.Query().Get("productGenre"),
		SearchString: r.URL.Query().Get("searchString"),
	}

	vm, err := h.listHandler.Handle(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return web.RenderView{View: "products_index", Title: "Products", Model: vm}, nil
}

// Details handles GET /products/details/{id}
func (h *ProductHandler) Details(r *http.Request) (web.Result, error) {
	id, ok := productID(r)
	if !ok {
		return notFound(mux.Vars(r)["id"]), nil
	}

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		return notFound(id), nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(r.Context()).Uint("product_id", id).Msg("Displaying details for product")
	return web.RenderView{View: "products_details", Title: "Details", Model: product}, nil
}

// CreateForm handles GET /products/create
func (h *ProductHandler) CreateForm(r *http.Request) (web.Result, error) {
	logger.Info(r.Context()).Msg("Create GET")
	return createForm(ProductForm{}, nil), nil
}

// Create handles POST /products/create
func (h *ProductHandler) Create(r *http.Request) (web.Result, error) {
	form, fields, fieldErrs := bindProduct(r)
	if fieldErrs != nil {
		logger.Warn(r.Context()).Interface("errors", fieldErrs).Msg("Create POST model invalid")
		return createForm(form, fieldErrs), nil
	}

	_, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{ProductFields: fields})
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return createForm(form, verr.Fields), nil
	}
	if err != nil {
		return nil, err
	}

	h.updateProductsMetric(r.Context())
	return web.Redirect{Target: listPath}, nil
}

// EditForm handles GET /products/edit/{id}
func (h *ProductHandler) EditForm(r *http.Request) (web.Result, error) {
	id, ok := productID(r)
	if !ok {
		return notFound(mux.Vars(r)["id"]), nil
	}

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		return notFound(id), nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(r.Context()).Uint("product_id", id).Msg("Edit GET for product")
	return editForm(id, productFormFromProduct(product), nil), nil
}

// Edit handles POST /products/edit/{id}
func (h *ProductHandler) Edit(r *http.Request) (web.Result, error) {
	id, ok := productID(r)
	if !ok {
		return notFound(mux.Vars(r)["id"]), nil
	}

	form, fields, fieldErrs := bindProduct(r)
	if form.ID != "" && form.ID != strconv.FormatUint(uint64(id), 10) {
		logger.Warn(r.Context()).
			Uint("product_id", id).
			Str("form_id", form.ID).
			Msg("Edit POST id mismatch")
		return notFound(id), nil
	}
	form.ID = strconv.FormatUint(uint64(id), 10)

	if fieldErrs != nil {
		logger.Warn(r.Context()).Uint("product_id", id).Interface("errors", fieldErrs).Msg("Edit POST model invalid")
		return editForm(id, form, fieldErrs), nil
	}

	_, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{ID: id, ProductFields: fields})
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return editForm(id, form, verr.Fields), nil
	case errors.Is(err, domain.ErrProductNotFound):
		return notFound(id), nil
	case err != nil:
		return nil, err
	}

	return web.Redirect{Target: listPath}, nil
}

// Delete handles GET /products/delete/{id}
func (h *ProductHandler) Delete(r *http.Request) (web.Result, error) {
	id, ok := productID(r)
	if !ok {
		return notFound(mux.Vars(r)["id"]), nil
	}

	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		return notFound(id), nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(r.Context()).Uint("product_id", id).Msg("Delete GET for product")
	return web.RenderView{View: "products_delete", Title: "Delete", Model: product}, nil
}

// DeleteConfirmed handles POST /products/delete/{id}
func (h *ProductHandler) DeleteConfirmed(r *http.Request) (web.Result, error) {
	id, ok := productID(r)
	if !ok {
		return notFound(mux.Vars(r)["id"]), nil
	}

	err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		logger.Warn(r.Context()).Uint("product_id", id).Msg("Delete POST for unknown product")
		return notFound(id), nil
	}
	if err != nil {
		return nil, err
	}

	h.updateProductsMetric(r.Context())
	return web.Redirect{Target: listPath}, nil
}

// ByGenre handles GET /products/bygenre/{genre}
func (h *ProductHandler) ByGenre(r *http.Request) (web.Result, error) {
	genre := mux.Vars(r)["genre"]

	vm, err := h.byGenreHandler.Handle(r.Context(), query.ListByGenreQuery{Genre: genre})
	if err != nil {
		return nil, err
	}
	return web.RenderView{View: "products_index", Title: "Products", Model: vm}, nil
}

// ByReleaseDate handles GET /products/released/{year}/{month?}
func (h *ProductHandler) ByReleaseDate(r *http.Request) (web.Result, error) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		return web.NotFound{Message: "Unknown release year."}, nil
	}
	q := query.ListByReleaseDateQuery{Year: year}

	if raw, ok := vars["month"]; ok {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return web.NotFound{Message: "Unknown release month."}, nil
		}
		q.Month = month
	}

	vm, err := h.byReleaseDateHandler.Handle(r.Context(), q)
	if errors.Is(err, domain.ErrInvalidReleaseFilter) {
		return web.NotFound{Message: "Unknown release date."}, nil
	}
	if err != nil {
		return nil, err
	}
	return web.RenderView{View: "products_index", Title: "Products", Model: vm}, nil
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterHealthCheck exposes GET /health. A nil db is always healthy.
func (h *ProductHandler) RegisterHealthCheck(router *mux.Router, db Pinger) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Health check failed")
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Catalog service is healthy",
		})
	}).Methods(http.MethodGet)
}

// updateProductsMetric updates the total products gauge
func (h *ProductHandler) updateProductsMetric(ctx context.Context) {
	count, err := h.repo.Count(ctx)
	if err == nil {
		h.totalProducts.Set(float64(count))
	}
}

func productID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(id any) web.NotFound {
	return web.NotFound{Message: fmt.Sprintf("Product %v was not found.", id)}
}

func createForm(form ProductForm, errs map[string]string) web.RenderForm {
	return web.RenderForm{
		View:    "products_form",
		Title:   "Create",
		Heading: "Create",
		Action:  "/products/create",
		Submit:  "Create",
		Values:  form,
		Errors:  errs,
	}
}

func editForm(id uint, form ProductForm, errs map[string]string) web.RenderForm {
	return web.RenderForm{
		View:    "products_form",
		Title:   "Edit",
		Heading: "Edit",
		Action:  fmt.Sprintf("/products/edit/%d", id),
		Submit:  "Save",
		Values:  form,
		Errors:  errs,
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
