package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/raadistore/storefront-platform/internal/api/middleware"
	"github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/metrics"
	"github.com/raadistore/storefront-platform/internal/models"
	service "github.com/raadistore/storefront-platform/internal/services"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/raadistore/storefront-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService   service.OrderService
	invoiceService service.InvoiceService
	validator      *validator.Validate
}

func NewOrderHandler(orderService service.OrderService, invoiceService service.InvoiceService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		invoiceService: invoiceService,
		validator:      validator.New(),
	}
}

// CreateOrder builds an order from the caller's cart. The cart must be
// non-empty and every line must be in stock.
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.UserID, claims.Email, &req)
		if err != nil {
			logger.Error("Failed to create order", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		metrics.OrderCreated()
		logger.Info("Order created",
			slog.String("orderId", order.ID.String()),
			slog.Float64("totalAmount", order.TotalAmount))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		order, err := h.orderService.GetOrder(r.Context(), claims, id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), claims, id)
		if err != nil {
			logger.Warn("Order cancellation failed", slog.String("orderId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order cancelled", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusOK, order)
	}
}

// UpdateStatus applies an admin transition through the order state machine.
func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Warn("Order status update failed",
				slog.String("orderId", id.String()),
				slog.String("status", string(req.Status)),
				slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Order status updated",
			slog.String("orderId", order.ID.String()),
			slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders serves the admin console, e.g. GET /orders?page=1&limit=10&status=pending&search=smith
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		q := models.ListOrdersQuery{
			Search: r.URL.Query().Get("search"),
			Status: models.OrderStatus(r.URL.Query().Get("status")),
		}

		q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
		q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

		orders, total, err := h.orderService.ListOrders(r.Context(), q)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if q.Page < 1 {
			q.Page = 1
		}

		if q.Limit < 1 || q.Limit > 100 {
			q.Limit = 10
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:  orders,
			Total: total,
			Page:  q.Page,
			Limit: q.Limit,
		})
	}
}

// GetInvoice streams the rendered invoice document for an order.
func (h *OrderHandler) GetInvoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		document, err := h.invoiceService.RenderInvoice(r.Context(), claims, id)
		if err != nil {
			response.Error(w, err)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+id.String()+`.html"`)
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(document); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to write invoice response", slog.String("error", err.Error()))
		}
	}
}
