// Hand-maintained testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	args := m.Called(ctx, ids)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[uuid.UUID]*models.Product), args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

// Mutate mirrors the real repository: the configured cart is handed to fn,
// totals are recalculated, and an fn error aborts the mutation.
func (m *CartRepository) Mutate(ctx context.Context, userID uuid.UUID, fn func(cart *models.Cart) error) (*models.Cart, error) {
	args := m.Called(ctx, userID, fn)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	cart := args.Get(0).(*models.Cart)

	if fn != nil {
		if err := fn(cart); err != nil {
			return nil, err
		}

		cart.Recalculate()
	}

	return cart, args.Error(1)
}

type PromoRepository struct {
	mock.Mock
}

func (m *PromoRepository) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	args := m.Called(ctx, promo)

	return args.Error(0)
}

func (m *PromoRepository) GetActiveByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	args := m.Called(ctx, code)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PromoCode), args.Error(1)
}

func (m *PromoRepository) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.PromoCode), args.Error(1)
}

func (m *PromoRepository) DeletePromo(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type PricingRepository struct {
	mock.Mock
}

func (m *PricingRepository) Get(ctx context.Context) (*models.PricingConfig, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PricingConfig), args.Error(1)
}

func (m *PricingRepository) Upsert(ctx context.Context, cfg *models.PricingConfig) error {
	args := m.Called(ctx, cfg)

	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepository) ListOrders(ctx context.Context, q models.ListOrdersQuery) ([]models.Order, int, error) {
	args := m.Called(ctx, q)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, deliveredAt *time.Time) error {
	args := m.Called(ctx, id, from, to, deliveredAt)

	return args.Error(0)
}

func (m *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	args := m.Called(ctx, id, transactionID)

	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)

	return args.Error(0)
}

func (m *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	args := m.Called(ctx, transactionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepository) MarkStatus(ctx context.Context, transactionID string, status models.TransactionStatus, rawPayload []byte) (bool, error) {
	args := m.Called(ctx, transactionID, status, rawPayload)

	return args.Bool(0), args.Error(1)
}
