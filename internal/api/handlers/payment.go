package handlers

import (
	"io"
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

// Webhook payloads above this size are rejected before signature checking.
const maxWebhookBodyBytes = 65536

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

func (h *PaymentHandler) InitiatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.InitiatePaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		result, err := h.paymentService.InitiatePayment(r.Context(), claims, &req)
		if err != nil {
			logger.Error("Failed to initiate payment",
				slog.String("orderId", req.OrderID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Payment initiated",
			slog.String("orderId", req.OrderID.String()),
			slog.String("transactionId", result.TransactionID))
		response.Success(w, http.StatusOK, result)
	}
}

// HandleWebhook is the gateway callback endpoint. It is unauthenticated; the
// signature header is the credential.
func (h *PaymentHandler) HandleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			logger.Error("Failed to read webhook payload", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Unable to read request body"))

			return
		}

		signature := r.Header.Get("Stripe-Signature")

		if err := h.paymentService.ProcessWebhook(r.Context(), payload, signature); err != nil {
			logger.Error("Webhook processing failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]string{"received": "true"})
	}
}
