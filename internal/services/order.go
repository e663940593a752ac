package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	repository "github.com/raadistore/storefront-platform/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, email string, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, claims *models.Claims, id uuid.UUID) (*models.Order, error)
	CancelOrder(ctx context.Context, claims *models.Claims, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, error)
	ListOrders(ctx context.Context, q models.ListOrdersQuery) ([]models.Order, int, error)
}

type orderService struct {
	repo        repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	promoRepo   repository.PromoRepository
	pricing     PricingService
	now         func() time.Time
}

func NewOrderService(repo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, promoRepo repository.PromoRepository, pricing PricingService) OrderService {
	return &orderService{
		repo:        repo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		promoRepo:   promoRepo,
		pricing:     pricing,
		now:         time.Now,
	}
}

// CreateOrder snapshots the user's cart into an immutable order. Stock is
// reserved inside the order transaction, and the cart is cleared only after
// the transaction commits; any failure leaves both cart and stock untouched.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, email string, req *models.CreateOrderRequest) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.BadRequestError("Cannot create an order from an empty cart")
		}

		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if cart.IsEmpty() {
		return nil, apperrors.BadRequestError("Cannot create an order from an empty cart")
	}

	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	orderID := uuid.New()

	// Line items snapshot the live catalog price, not the cart's stored one.
	var subtotal float64

	items := make([]models.OrderItem, 0, len(cart.Lines))

	for _, line := range cart.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, apperrors.NotFoundError("Product no longer exists").
				WithDetail(fmt.Sprintf("product %s is not available", line.ProductID))
		}

		subtotal += product.Price * float64(line.Quantity)

		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
	}

	var discount float64

	var promoCode string

	if req.PromoCode != "" {
		promo, err := lookupUsablePromo(ctx, s.promoRepo, req.PromoCode, s.now())
		if err != nil {
			return nil, err
		}

		discount, _ = EvaluateDiscount(promo, subtotal)
		promoCode = promo.Code
	}

	cfg, err := s.pricing.GetActiveConfig(ctx)
	if err != nil {
		return nil, err
	}

	discounted := subtotal - discount
	if discounted < 0 {
		discounted = 0
	}

	if cfg.MinOrderValue > 0 && discounted < cfg.MinOrderValue {
		return nil, apperrors.BadRequestError("Order value is below the minimum").
			WithDetail(fmt.Sprintf("minimum order value is %.2f", cfg.MinOrderValue))
	}

	tax := discounted * cfg.TaxPercent / 100

	shipping := cfg.ShippingCharge
	if cfg.FreeShippingThreshold > 0 && discounted >= cfg.FreeShippingThreshold {
		shipping = 0
	}

	if req.PaymentMethod == "cod" {
		shipping += cfg.CODCharge
	}

	order := &models.Order{
		ID:              orderID,
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   email,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: &req.ShippingAddress,
		Items:           items,
		Subtotal:        subtotal,
		Discount:        discount,
		Tax:             tax,
		ShippingCharge:  shipping,
		TotalAmount:     discounted + tax + shipping,
		PromoCode:       promoCode,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			name := stockErr.ProductID.String()
			if product, ok := products[stockErr.ProductID]; ok {
				name = product.Name
			}

			return nil, apperrors.ConflictError("Insufficient stock").
				WithDetail(fmt.Sprintf("not enough stock of %q to fulfil the order", name))
		}

		return nil, apperrors.DatabaseError("Failed to create order").WithError(err)
	}

	// The order now owns the purchased state. A failed clear leaves a stale
	// cart behind but never an inconsistent order.
	if _, err := s.cartRepo.Mutate(ctx, userID, func(cart *models.Cart) error {
		cart.Lines = make(map[string]models.CartLine)

		return nil
	}); err != nil {
		slog.Warn("failed to clear cart after order creation", "error", err, "orderId", order.ID, "userId", userID)
	}

	return order, nil
}

// GetOrder fetches an order for its owner or an admin.
func (s *orderService) GetOrder(ctx context.Context, claims *models.Claims, id uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundError("Order not found")
		}

		return nil, apperrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != claims.UserID && !claims.IsAdmin() {
		return nil, apperrors.ForbiddenError("You do not have access to this order")
	}

	return order, nil
}

// CancelOrder cancels an order that has not shipped yet.
func (s *orderService) CancelOrder(ctx context.Context, claims *models.Claims, id uuid.UUID) (*models.Order, error) {

	order, err := s.GetOrder(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, order, models.OrderStatusCancelled)
}

// UpdateOrderStatus applies an admin-driven transition through the order
// state machine.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundError("Order not found")
		}

		return nil, apperrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return s.transition(ctx, order, next)
}

func (s *orderService) transition(ctx context.Context, order *models.Order, next models.OrderStatus) (*models.Order, error) {

	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.ConflictError("Invalid order status transition").
			WithDetail(fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	// delivered_at is stamped exactly once, on the delivered transition.
	var deliveredAt *time.Time

	if next == models.OrderStatusDelivered {
		now := s.now()
		deliveredAt = &now
	}

	err := s.repo.UpdateOrderStatus(ctx, order.ID, order.Status, next, deliveredAt)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.ConflictError("Order status changed concurrently")
		}

		return nil, apperrors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = next
	order.DeliveredAt = deliveredAt

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, q models.ListOrdersQuery) ([]models.Order, int, error) {

	if q.Page < 1 {
		q.Page = 1
	}

	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}

	orders, total, err := s.repo.ListOrders(ctx, q)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}
