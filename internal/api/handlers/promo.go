package handlers

import (
	"log/slog"
	"net/http"

	"github.com/raadistore/storefront-platform/internal/api/middleware"
	"github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	service "github.com/raadistore/storefront-platform/internal/services"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/raadistore/storefront-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PromoHandler struct {
	promoService service.PromoService
	validator    *validator.Validate
}

func NewPromoHandler(promoService service.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoService, validator: validator.New()}
}

// ApplyPromo evaluates a promo code against the caller's cart. The response
// is advisory and nothing is persisted.
func (h *PromoHandler) ApplyPromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.ApplyPromoRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.promoService.ApplyPromo(r.Context(), claims.UserID, req.Code)
		if err != nil {
			logger.Warn("Promo application failed",
				slog.String("code", req.Code),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Promo applied", slog.String("code", result.Promo.Code))
		response.Success(w, http.StatusOK, result)
	}
}

func (h *PromoHandler) CreatePromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreatePromoRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		promo, err := h.promoService.CreatePromo(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create promo", slog.String("code", req.Code), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Promo created", slog.String("promoId", promo.ID.String()), slog.String("code", promo.Code))
		response.Success(w, http.StatusCreated, promo)
	}
}

func (h *PromoHandler) ListPromos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		promos, err := h.promoService.ListPromos(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list promos", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, promos)
	}
}

func (h *PromoHandler) DeletePromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.promoService.DeletePromo(r.Context(), id); err != nil {
			logger.Error("Failed to delete promo", slog.String("promoId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Promo deleted", slog.String("promoId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"id": id.String()})
	}
}
