package transport

import (
	"errors"
	"net/http"

	"product-provider/internal/middleware"
	"product-provider/internal/repository"
	"product-provider/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// decodeRequest decodes and validates the body into v, answering 400 itself
// when that fails
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, answering 400 itself when malformed
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps domain errors onto the error envelope
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, repository.ErrVariantNotFound):
		logger.Debug("Resource not found", zap.Error(err))
		middleware.RespondWithError(w, http.StatusNotFound, notFoundMessage(err))

	case errors.Is(err, repository.ErrVariantAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, repository.ErrVariantAlreadyExists.Error())

	case errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidReview),
		errors.Is(err, service.ErrInvalidVariant):
		logger.Debug("Invalid input", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func notFoundMessage(err error) string {
	for _, sentinel := range []error{
		repository.ErrProductNotFound,
		repository.ErrCategoryNotFound,
		repository.ErrReviewNotFound,
		repository.ErrVariantNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "not found"
}
