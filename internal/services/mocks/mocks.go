// Hand-maintained testify mocks for the service interfaces.
package mocks

import (
	"context"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PricingService struct {
	mock.Mock
}

func (m *PricingService) GetActiveConfig(ctx context.Context) (*models.PricingConfig, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PricingConfig), args.Error(1)
}

func (m *PricingService) UpdateConfig(ctx context.Context, req *models.UpdatePricingConfigRequest) (*models.PricingConfig, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PricingConfig), args.Error(1)
}

type PromoService struct {
	mock.Mock
}

func (m *PromoService) ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*models.PromoResult, error) {
	args := m.Called(ctx, userID, code)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PromoResult), args.Error(1)
}

func (m *PromoService) CreatePromo(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PromoCode), args.Error(1)
}

func (m *PromoService) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.PromoCode), args.Error(1)
}

func (m *PromoService) DeletePromo(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, req *models.RemoveItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, email string, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, email, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, claims *models.Claims, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, claims, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) CancelOrder(ctx context.Context, claims *models.Claims, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, claims, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, next)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, q models.ListOrdersQuery) ([]models.Order, int, error) {
	args := m.Called(ctx, q)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

type PaymentService struct {
	mock.Mock
}

func (m *PaymentService) InitiatePayment(ctx context.Context, claims *models.Claims, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	args := m.Called(ctx, claims, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.InitiatePaymentResponse), args.Error(1)
}

func (m *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)

	return args.Error(0)
}

type InvoiceService struct {
	mock.Mock
}

func (m *InvoiceService) RenderInvoice(ctx context.Context, claims *models.Claims, orderID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, claims, orderID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}
