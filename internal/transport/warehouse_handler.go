package transport

import (
	"net/http"

	"product-provider/internal/domain"
	"product-provider/internal/middleware"
	"product-provider/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VariantRequest represents the warehouse variant creation payload
type VariantRequest struct {
	ProductID    uuid.UUID  `json:"productId" validate:"required"`
	ColorID      *uuid.UUID `json:"colorId"`
	SizeID       *uuid.UUID `json:"sizeId"`
	CurrentStock int        `json:"currentStock" validate:"gte=0"`
}

type ColorRequest struct {
	Name             string `json:"name" validate:"required"`
	HexadecimalColor string `json:"hexadecimalColor"`
}

type SizeRequest struct {
	Name string `json:"name" validate:"required"`
}

// WarehouseHandler handles HTTP requests for stock variants, colors and sizes
type WarehouseHandler struct {
	warehouseService service.WarehouseService
	logger           *zap.Logger
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService service.WarehouseService, logger *zap.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
		logger:           logger,
	}
}

// RegisterRoutes registers all warehouse routes
func (h *WarehouseHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/warehouse", h.CreateVariant)
	r.Get("/api/warehouse", h.ListVariants)
	r.Get("/api/warehouse/{id}", h.GetVariant)
	r.Put("/api/warehouse/{id}", h.UpdateVariant)

	r.Get("/api/products/{id}/variants", h.VariantsByProduct)
	r.Get("/api/products/{id}/sizes", h.SizesByProduct)
	r.Get("/api/products/{id}/colors", h.ColorsByProduct)

	r.Post("/api/colors", h.CreateColor)
	r.Get("/api/colors", h.ListColors)
	r.Post("/api/sizes", h.CreateSize)
	r.Get("/api/sizes", h.ListSizes)
}

// CreateVariant adds a stock entry; a second entry for the same color and size is a conflict
func (h *WarehouseHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req VariantRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	variant, err := h.warehouseService.CreateVariant(r.Context(), req.ProductID, domain.WarehouseInput{
		ColorID:      req.ColorID,
		SizeID:       req.SizeID,
		CurrentStock: req.CurrentStock,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create warehouse variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, variant)
}

func (h *WarehouseHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.warehouseService.ListVariants(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list warehouse variants")
		return
	}
	if len(variants) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variants)
}

func (h *WarehouseHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	variant, err := h.warehouseService.GetVariant(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get warehouse variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variant)
}

// UpdateVariant replaces color, size and stock of one variant
func (h *WarehouseHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.WarehouseInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	variant, err := h.warehouseService.UpdateVariant(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update warehouse variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variant)
}

func (h *WarehouseHandler) VariantsByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	variants, err := h.warehouseService.ListVariantsByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list product variants")
		return
	}
	if len(variants) == 0 {
		middleware.RespondWithError(w, http.StatusNotFound, "no variants for product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variants)
}

func (h *WarehouseHandler) SizesByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	sizes, err := h.warehouseService.SizesByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list product sizes")
		return
	}
	if len(sizes) == 0 {
		middleware.RespondWithError(w, http.StatusNotFound, "no sizes for product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sizes)
}

func (h *WarehouseHandler) ColorsByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	colors, err := h.warehouseService.ColorsByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list product colors")
		return
	}
	if len(colors) == 0 {
		middleware.RespondWithError(w, http.StatusNotFound, "no colors for product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, colors)
}

func (h *WarehouseHandler) CreateColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	color, err := h.warehouseService.CreateColor(r.Context(), req.Name, req.HexadecimalColor)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create color")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, color)
}

func (h *WarehouseHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.warehouseService.ListColors(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list colors")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, colors)
}

func (h *WarehouseHandler) CreateSize(w http.ResponseWriter, r *http.Request) {
	var req SizeRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	size, err := h.warehouseService.CreateSize(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create size")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, size)
}

func (h *WarehouseHandler) ListSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.warehouseService.ListSizes(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list sizes")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sizes)
}
