package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/google/uuid"
)

// InsufficientStockError names the line that could not be reserved so the
// caller can render a useful message.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Requested)
}

// ErrStatusConflict signals a conditional status update that matched no row,
// meaning the order moved concurrently or does not exist in the expected
// state.
var ErrStatusConflict = errors.New("order status changed concurrently")

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, q models.ListOrdersQuery) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, deliveredAt *time.Time) error
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder persists the order snapshot and reserves stock in one
// transaction. The conditional decrement is what prevents oversell: two
// concurrent orders cannot both pass it for the same units.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	shippingAddress, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	return withinTx(dbCtx, r.DB, func(tx *sql.Tx) error {

		stockQuery := `
			UPDATE products
			SET stock_quantity = stock_quantity - $1, sold_count = sold_count + $1, updated_at = NOW()
			WHERE id = $2 AND stock_quantity >= $1
		`

		for _, item := range order.Items {

			result, err := tx.ExecContext(dbCtx, stockQuery, item.Quantity, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to reserve stock: %w", err)
			}

			updatedRows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get updated rows: %w", err)
			}

			if updatedRows == 0 {
				return &InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity}
			}
		}

		orderQuery := `
			INSERT INTO orders (id, user_id, customer_name, customer_email, customer_phone,
			                    shipping_address, subtotal, discount, tax, shipping_charge,
			                    total_amount, promo_code, payment_method, status, payment_status,
			                    created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		`

		_, err := tx.ExecContext(dbCtx, orderQuery, order.ID, order.UserID, order.CustomerName,
			order.CustomerEmail, order.CustomerPhone, shippingAddress, order.Subtotal,
			order.Discount, order.Tax, order.ShippingCharge, order.TotalAmount,
			order.PromoCode, order.PaymentMethod, order.Status, order.PaymentStatus)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`

		for _, item := range order.Items {
			_, err := tx.ExecContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID,
				item.Name, item.Quantity, item.UnitPrice)
			if err != nil {
				return fmt.Errorf("failed to insert an order item: %w", err)
			}
		}

		return nil
	})
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT user_id, customer_name, customer_email, customer_phone, shipping_address,
		       subtotal, discount, tax, shipping_charge, total_amount, promo_code,
		       payment_method, status, payment_status, transaction_id, delivered_at,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var addressJSON []byte

	var transactionID sql.NullString

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&order.UserID, &order.CustomerName,
		&order.CustomerEmail, &order.CustomerPhone, &addressJSON, &order.Subtotal,
		&order.Discount, &order.Tax, &order.ShippingCharge, &order.TotalAmount,
		&order.PromoCode, &order.PaymentMethod, &order.Status, &order.PaymentStatus,
		&transactionID, &order.DeliveredAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	order.TransactionID = transactionID.String

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	items, err := r.getOrderItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {

	query := `
		SELECT id, product_id, name, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {
		var item models.OrderItem

		err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.OrderID = orderID
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// ListOrders serves the admin console: paginated, optionally filtered by
// status and a search term matched against customer name and email.
func (r *orderRepository) ListOrders(ctx context.Context, q models.ListOrdersQuery) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ` WHERE 1=1`

	args := []any{}

	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(" AND (customer_name ILIKE $%d OR customer_email ILIKE $%d)", len(args), len(args))
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM orders` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.Limit

	args = append(args, q.Limit, offset)

	query := `
		SELECT id, user_id, customer_name, customer_email, customer_phone, shipping_address,
		       subtotal, discount, tax, shipping_charge, total_amount, promo_code,
		       payment_method, status, payment_status, transaction_id, delivered_at,
		       created_at, updated_at
		FROM orders` + where + fmt.Sprintf(`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var order models.Order

		var addressJSON []byte

		var transactionID sql.NullString

		err := rows.Scan(&order.ID, &order.UserID, &order.CustomerName, &order.CustomerEmail,
			&order.CustomerPhone, &addressJSON, &order.Subtotal, &order.Discount, &order.Tax,
			&order.ShippingCharge, &order.TotalAmount, &order.PromoCode, &order.PaymentMethod,
			&order.Status, &order.PaymentStatus, &transactionID, &order.DeliveredAt,
			&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		order.TransactionID = transactionID.String

		if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal shipping address: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.getOrderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

// UpdateOrderStatus applies a transition conditionally on the current status,
// so concurrent admin updates cannot skip states. deliveredAt is stamped only
// on the delivered transition.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, deliveredAt *time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET status = $1, delivered_at = COALESCE($2, delivered_at), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.DB.ExecContext(dbCtx, query, to, deliveredAt, id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrStatusConflict
	}

	return nil
}

// MarkPaid confirms the order on successful payment and reports whether the
// transition applied. Pending and failed payment states are both payable, so
// a retry after a failed attempt still confirms. The status guard keeps a
// late success from resurrecting a cancelled order.
func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, status = $2, transaction_id = $3, updated_at = NOW()
		WHERE id = $4 AND payment_status IN ($5, $6) AND status = $7
	`

	result, err := r.DB.ExecContext(dbCtx, query, models.PaymentStatusPaid, models.OrderStatusConfirmed,
		transactionID, id, models.PaymentStatusPending, models.PaymentStatusFailed, models.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows > 0, nil
}

// MarkPaymentFailed records the failure but leaves the order pending so the
// customer can retry payment.
func (r *orderRepository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = $3
	`

	_, err := r.DB.ExecContext(dbCtx, query, models.PaymentStatusFailed, id, models.PaymentStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	return nil
}
