package handlers

import (
	"log/slog"
	"net/http"

	"github.com/raadistore/storefront-platform/internal/api/middleware"
	"github.com/raadistore/storefront-platform/internal/models"
	service "github.com/raadistore/storefront-platform/internal/services"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/raadistore/storefront-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PricingHandler struct {
	pricingService service.PricingService
	validator      *validator.Validate
}

func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, validator: validator.New()}
}

func (h *PricingHandler) GetConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cfg, err := h.pricingService.GetActiveConfig(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to fetch pricing config", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cfg)
	}
}

func (h *PricingHandler) UpdateConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.UpdatePricingConfigRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cfg, err := h.pricingService.UpdateConfig(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to update pricing config", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Pricing config updated")
		response.Success(w, http.StatusOK, cfg)
	}
}
