package transport

import (
	"net/http"

	"product-provider/internal/domain"
	"product-provider/internal/middleware"
	"product-provider/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the product aggregate
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/products", h.Create)
	r.Get("/api/products", h.GetAll)
	r.Get("/api/products/newarrivals", h.NewArrivals)
	r.Get("/api/products/{id}", h.GetOne)
	r.Put("/api/products/{id}", h.Update)
	r.Delete("/api/products/{id}", h.Delete)
}

// Create handles product creation with its images, prices and warehouse variants
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.productService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// GetAll lists every product; it answers 200 even when the catalog is empty
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.productService.GetAll(r.Context()))
}

// GetOne returns one fully loaded product
func (h *ProductHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.GetOne(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update replaces the product and all of its children
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.ProductInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.productService.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes the product and everything it owns
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.productService.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to delete product")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NewArrivals lists recently created products as teasers
func (h *ProductHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	arrivals, err := h.productService.NewArrivals(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list new arrivals")
		return
	}
	if len(arrivals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, arrivals)
}
