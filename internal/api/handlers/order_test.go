package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raadistore/storefront-platform/internal/api/handlers"
	appErrors "github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/services/mocks"
	"github.com/raadistore/storefront-platform/internal/testutils"
	"github.com/raadistore/storefront-platform/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderTest() (*mocks.OrderService, *mocks.InvoiceService, *handlers.OrderHandler) {
	mockOrderService := new(mocks.OrderService)
	mockInvoiceService := new(mocks.InvoiceService)
	orderHandler := handlers.NewOrderHandler(mockOrderService, mockInvoiceService)

	return mockOrderService, mockInvoiceService, orderHandler
}

func createOrderBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(models.CreateOrderRequest{
		CustomerName:  "Asha Verma",
		CustomerPhone: "+911234567890",
		ShippingAddress: models.Address{
			Street: "14 MG Road", City: "Bengaluru", State: "Karnataka",
			PostalCode: "560001", Country: "IN",
		},
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	return body
}

func TestCreateOrderHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Order Created", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/orders", bytes.NewBuffer(createOrderBody(t)), userID, nil)
		recorder := httptest.NewRecorder()

		order := &models.Order{ID: uuid.New(), UserID: userID, TotalAmount: 490, Status: models.OrderStatusPending}

		mockOrderService.On("CreateOrder", mock.Anything, userID, "test@example.com", mock.AnythingOfType("*models.CreateOrderRequest")).
			Return(order, nil).Once()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp *response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Validation Rejects Missing Address", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		body, err := json.Marshal(models.CreateOrderRequest{CustomerName: "Asha Verma", CustomerPhone: "+911234567890", PaymentMethod: "card"})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/orders", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Insufficient Stock Maps To Conflict", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/orders", bytes.NewBuffer(createOrderBody(t)), userID, nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("CreateOrder", mock.Anything, userID, mock.Anything, mock.Anything).
			Return(nil, appErrors.ConflictError("Insufficient stock")).Once()

		// Act
		orderHandler.CreateOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp *response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, appErrors.ErrCodeConflict, resp.Error.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("Success - Order Fetched", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/orders/"+orderID.String(), nil, userID,
			map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("GetOrder", mock.Anything, mock.AnythingOfType("*models.Claims"), orderID).
			Return(&models.Order{ID: orderID, UserID: userID}, nil).Once()

		// Act
		orderHandler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Malformed ID", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/orders/not-a-uuid", nil, userID,
			map[string]string{"id": "not-a-uuid"})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateStatusHandler(t *testing.T) {
	adminID := uuid.New()
	orderID := uuid.New()

	t.Run("Success - Status Updated", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		body, err := json.Marshal(models.UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
		require.NoError(t, err)

		req := testutils.CreateAdminTestRequest("PATCH", "/api/v1/orders/"+orderID.String()+"/status",
			bytes.NewBuffer(body), adminID, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusShipped).
			Return(&models.Order{ID: orderID, Status: models.OrderStatusShipped}, nil).Once()

		// Act
		orderHandler.UpdateStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Transition Maps To Conflict", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		body, err := json.Marshal(models.UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
		require.NoError(t, err)

		req := testutils.CreateAdminTestRequest("PATCH", "/api/v1/orders/"+orderID.String()+"/status",
			bytes.NewBuffer(body), adminID, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusCancelled).
			Return(nil, appErrors.ConflictError("Invalid order status transition")).Once()

		// Act
		orderHandler.UpdateStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	adminID := uuid.New()

	t.Run("Success - Filters Parsed From Query", func(t *testing.T) {
		// Arrange
		mockOrderService, _, orderHandler := setupOrderTest()

		req := testutils.CreateAdminTestRequest("GET", "/api/v1/orders?page=2&limit=5&status=pending&search=asha", nil, adminID, nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("ListOrders", mock.Anything, models.ListOrdersQuery{
			Page: 2, Limit: 5, Search: "asha", Status: models.OrderStatusPending,
		}).Return([]models.Order{{ID: uuid.New()}}, 11, nil).Once()

		// Act
		orderHandler.ListOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}

func TestGetInvoiceHandler(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("Success - Invoice Streamed", func(t *testing.T) {
		// Arrange
		_, mockInvoiceService, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/orders/"+orderID.String()+"/invoice", nil, userID,
			map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockInvoiceService.On("RenderInvoice", mock.Anything, mock.AnythingOfType("*models.Claims"), orderID).
			Return([]byte("<html>invoice</html>"), nil).Once()

		// Act
		orderHandler.GetInvoice()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, recorder.Header().Get("Content-Disposition"), orderID.String())
		assert.Contains(t, recorder.Body.String(), "invoice")
		mockInvoiceService.AssertExpectations(t)
	})

	t.Run("Failure - Forbidden For Strangers", func(t *testing.T) {
		// Arrange
		_, mockInvoiceService, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/orders/"+orderID.String()+"/invoice", nil, userID,
			map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockInvoiceService.On("RenderInvoice", mock.Anything, mock.Anything, orderID).
			Return(nil, appErrors.ForbiddenError("You do not have access to this order")).Once()

		// Act
		orderHandler.GetInvoice()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
