package transport

import (
	"net/http"

	"product-provider/internal/middleware"
	"product-provider/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewRequest represents the review creation payload
type ReviewRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Stars     int       `json:"stars" validate:"required,gte=1,lte=5"`
	Text      string    `json:"text"`
}

// ReviewUpdateRequest represents the review update payload
type ReviewUpdateRequest struct {
	Stars int    `json:"stars" validate:"required,gte=1,lte=5"`
	Text  string `json:"text"`
}

// ReviewHandler handles HTTP requests for product reviews
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products/{id}/reviews", h.ListByProduct)
	r.Post("/api/reviews", h.Create)
	r.Get("/api/reviews/{id}", h.GetOne)
	r.Put("/api/reviews/{id}", h.Update)
	r.Delete("/api/reviews/{id}", h.Delete)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	review, err := h.reviewService.Create(r.Context(), req.ProductID, req.Stars, req.Text)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	review, err := h.reviewService.GetOne(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ReviewUpdateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	review, err := h.reviewService.Update(r.Context(), id, req.Stars, req.Text)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.reviewService.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to delete review")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
