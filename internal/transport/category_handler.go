package transport

import (
	"net/http"

	"product-provider/internal/middleware"
	"product-provider/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents the category creation payload
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/categories", h.List)
	r.Post("/api/categories", h.Create)
	r.Get("/api/categories/productcount", h.ProductCount)
}

// Create returns the category with the given name, creating it if needed
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Icon)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ProductCount lists categories with the number of products in each
func (h *CategoryHandler) ProductCount(w http.ResponseWriter, r *http.Request) {
	counts, err := h.categoryService.ListWithProductCount(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to count products per category")
		return
	}
	if len(counts) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, counts)
}
