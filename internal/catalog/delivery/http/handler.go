package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/almast/trendmart/internal/catalog/domain"
	"github.com/almast/trendmart/internal/catalog/usecase/command"
	"github.com/almast/trendmart/internal/catalog/usecase/query"
	userdomain "github.com/almast/trendmart/internal/user/domain"
	userhttp "github.com/almast/trendmart/internal/user/delivery/http"
	"github.com/almast/trendmart/pkg/logger"
)

// Upload limits for product images.
const (
	maxUploadFiles = 8
	maxUploadSize  = 5 << 20 // per file
)

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// CatalogHandler handles HTTP requests for the product catalog using
// the CQRS pattern.
type CatalogHandler struct {
	// Command handlers
	createHandler     *command.CreateProductHandler
	updateHandler     *command.UpdateProductHandler
	deleteHandler     *command.DeleteProductHandler
	bulkDeleteHandler *command.BulkDeleteProductsHandler

	// Query handlers
	listHandler       *query.ListProductsHandler
	adminListHandler  *query.AdminListProductsHandler
	getProductHandler *query.GetProductHandler
	categoriesHandler *query.ListCategoriesHandler

	reader domain.ProductReader
	cache  *ResponseCache
	dev    bool

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
}

// NewCatalogHandler creates a new catalog handler (manual DI).
func NewCatalogHandler(
	reader domain.ProductReader,
	writer domain.ProductWriter,
	store domain.ImageStore,
	events command.EventPublisher,
	cache *ResponseCache,
	dev bool,
) *CatalogHandler {
	return NewCatalogHandlerWithDI(
		command.NewCreateProductHandler(writer, store, events),
		command.NewUpdateProductHandler(writer, store, events),
		command.NewDeleteProductHandler(writer, store, events),
		command.NewBulkDeleteProductsHandler(writer, store, events),
		query.NewListProductsHandler(reader),
		query.NewAdminListProductsHandler(reader),
		query.NewGetProductHandler(reader),
		query.NewListCategoriesHandler(reader),
		reader, cache, dev,
	)
}

// NewCatalogHandlerWithDI creates a new catalog handler using dependency
// injection.
func NewCatalogHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	bulkDeleteHandler *command.BulkDeleteProductsHandler,
	listHandler *query.ListProductsHandler,
	adminListHandler *query.AdminListProductsHandler,
	getProductHandler *query.GetProductHandler,
	categoriesHandler *query.ListCategoriesHandler,
	reader domain.ProductReader,
	cache *ResponseCache,
	dev bool,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests to catalog endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "catalog_request_duration_summary",
			Help: "Summary of catalog request durations with percentiles",
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
			Name: "catalog_total_products",
			Help: "Total number of products in the catalog",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(totalProducts)

	return &CatalogHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deleteHandler:     deleteHandler,
		bulkDeleteHandler: bulkDeleteHandler,
		listHandler:       listHandler,
		adminListHandler:  adminListHandler,
		getProductHandler: getProductHandler,
		categoriesHandler: categoriesHandler,
		reader:            reader,
		cache:             cache,
		dev:               dev,
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
		requestSummary:    requestSummary,
		totalProducts:     totalProducts,
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
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
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

// RegisterRoutes registers catalog routes. Admin routes re-check the
// caller's role against the user store on every request.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router, users userdomain.UserRepository) {
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return userhttp.AdminMiddleware(users, next)
	}

	// Public routes
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.cache.Wrap(h.ListProducts))).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.cache.Wrap(h.GetProduct))).Methods("GET")
	router.HandleFunc("/api/categories", h.metricsMiddleware("/api/categories", h.cache.Wrap(h.ListCategories))).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/admin/products", h.metricsMiddleware("/api/admin/products", admin(h.AdminListProducts))).Methods("GET")
	router.HandleFunc("/api/admin/products", h.metricsMiddleware("/api/admin/products", admin(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/admin/products", h.metricsMiddleware("/api/admin/products", admin(h.BulkDeleteProducts))).Methods("DELETE")
	router.HandleFunc("/api/admin/products/{id}", h.metricsMiddleware("/api/admin/products/{id}", admin(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/admin/products/{id}", h.metricsMiddleware("/api/admin/products/{id}", admin(h.DeleteProduct))).Methods("DELETE")
}

// --- request parsing helpers ---

// formValue reports a multipart form field, nil when the field was not
// sent at all.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// floatValue parses an optional numeric field. Absent fields and the
// frontend's "undefined" sentinel mean "leave unchanged".
func floatValue(r *http.Request, key string) (*float64, error) {
	raw := formValue(r, key)
	if raw == nil || *raw == "" || *raw == "undefined" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Reason: "invalid " + key}
	}
	return &v, nil
}

func intValue(r *http.Request, key string) (*int, error) {
	raw := formValue(r, key)
	if raw == nil || *raw == "" || *raw == "undefined" {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Reason: "invalid " + key}
	}
	return &v, nil
}

// categoryIDs collects the categories field, accepting both repeated
// values and comma-separated lists.
func categoryIDs(r *http.Request) []string {
	if r.MultipartForm == nil {
		return nil
	}
	var ids []string
	for _, v := range r.MultipartForm.Value["categories"] {
		for _, id := range strings.Split(v, ",") {
			ids = append(ids, strings.TrimSpace(id))
		}
	}
	return ids
}

// imageFiles validates and returns the uploaded files.
func imageFiles(r *http.Request) ([]*multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["images"]
	if len(files) > maxUploadFiles {
		return nil, &domain.ValidationError{Field: "images", Reason: "at most 8 images per product"}
	}
	for _, f := range files {
		if f.Size > maxUploadSize {
			return nil, &domain.ValidationError{Field: "images", Reason: "image files must be 5MB or smaller"}
		}
		ext := strings.ToLower(filepath.Ext(f.Filename))
		mime := f.Header.Get("Content-Type")
		if !allowedImageExts[ext] || !strings.HasPrefix(mime, "image/") {
			return nil, &domain.ValidationError{Field: "images", Reason: "only image files are allowed"}
		}
	}
	return files, nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, (maxUploadFiles+2)*maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "invalid multipart form"}
	}
	return nil
}

// respondCommandError maps a mutation error onto the API's error
// taxonomy. Internal detail is suppressed outside development mode.
func (h *CatalogHandler) respondCommandError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, domain.ErrDuplicateSKU):
		respondError(w, http.StatusBadRequest, domain.ErrDuplicateSKU.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "Product not found")
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Catalog mutation failed")
		msg := "Internal server error"
		if h.dev {
			msg = err.Error()
		}
		respondError(w, http.StatusInternalServerError, msg)
	}
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// --- public endpoints ---

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := query.ListProductsQuery{
		Search:     params.Get("search"),
		Category:   params.Get("category"),
		Trending:   params.Get("trending"),
		BestSeller: params.Get("best_seller"),
		NewArrival: params.Get("new_arrival"),
		Limit:      intQuery(r, "limit", query.DefaultLimit),
		Offset:     intQuery(r, "offset", 0),
	}

	views, err := h.listHandler.Handle(q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, views)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.getProductHandler.Handle(query.GetProductQuery{ID: id})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		logger.Error(r.Context()).Err(err).Str("product_id", id).Msg("Failed to fetch product")
		respondError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoriesHandler.Handle(query.ListCategoriesQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// --- admin endpoints ---

// AdminListProducts handles GET /api/admin/products
func (h *CatalogHandler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := query.AdminListProductsQuery{
		Search:     params.Get("search"),
		Category:   params.Get("category"),
		Trending:   params.Get("trending"),
		BestSeller: params.Get("best_seller"),
		NewArrival: params.Get("new_arrival"),
		Status:     params.Get("status"),
		Limit:      intQuery(r, "limit", query.DefaultLimit),
		Offset:     intQuery(r, "offset", 0),
	}

	listing, err := h.adminListHandler.Handle(q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products for admin")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": listing.Products,
		"pagination": map[string]interface{}{
			"total":   listing.Total,
			"limit":   listing.Limit,
			"offset":  listing.Offset,
			"hasMore": listing.HasMore,
		},
	})
}

// CreateProduct handles POST /api/admin/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	files, err := imageFiles(r)
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	price, err := floatValue(r, "price")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}
	oldPrice, err := floatValue(r, "old_price")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}
	quantity, err := intValue(r, "quantity")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}
	threshold, err := intValue(r, "low_stock_threshold")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	cmd := command.CreateProductCommand{
		Name:        r.FormValue("name"),
		SKU:         r.FormValue("sku"),
		Description: r.FormValue("description"),
		Price:       price,
		OldPrice:    oldPrice,
		Quantity:    quantity,
		InStock:     formValue(r, "in_stock"),
		Threshold:   threshold,
		Trending:    r.FormValue("trending"),
		BestSeller:  r.FormValue("best_seller"),
		NewArrival:  r.FormValue("new_arrival"),
		CategoryIDs: categoryIDs(r),
		Files:       files,
	}

	product, err := h.createHandler.Handle(cmd)
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())
	h.updateProductsMetric()

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := parseMultipart(w, r); err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	files, err := imageFiles(r)
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	price, err := floatValue(r, "price")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}
	oldPrice, err := floatValue(r, "old_price")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}
	quantity, err := intValue(r, "quantity")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}
	threshold, err := intValue(r, "low_stock_threshold")
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	cmd := command.UpdateProductCommand{
		ID:          id,
		Name:        formValue(r, "name"),
		SKU:         formValue(r, "sku"),
		Description: formValue(r, "description"),
		Price:       price,
		OldPrice:    oldPrice,
		Quantity:    quantity,
		InStock:     formValue(r, "in_stock"),
		Threshold:   threshold,
		Trending:    formValue(r, "trending"),
		BestSeller:  formValue(r, "best_seller"),
		NewArrival:  formValue(r, "new_arrival"),
		CategoryIDs: categoryIDs(r),
		Files:       files,
	}

	product, err := h.updateHandler.Handle(cmd)
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct handles DELETE /api/admin/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.deleteHandler.Handle(command.DeleteProductCommand{ID: id}); err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())
	h.updateProductsMetric()

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// BulkDeleteProducts handles DELETE /api/admin/products
func (h *CatalogHandler) BulkDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIDs []string `json:"productIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deleted, err := h.bulkDeleteHandler.Handle(command.BulkDeleteProductsCommand{IDs: req.ProductIDs})
	if err != nil {
		h.respondCommandError(w, r, err)
		return
	}

	h.cache.Invalidate(r.Context())
	h.updateProductsMetric()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Products deleted successfully",
		"deletedIds": deleted,
	})
}

// RegisterHealthCheck adds the liveness endpoint backed by a database ping.
func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}

// updateProductsMetric refreshes the total products gauge.
func (h *CatalogHandler) updateProductsMetric() {
	count, err := h.reader.CountFiltered(domain.ListFilter{Admin: true})
	if err == nil {
		h.totalProducts.Set(float64(count))
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
