package repository_test

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/raadistore/storefront-platform/internal/models"
	repository "github.com/raadistore/storefront-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewOrderRepo(db)
	assert.NotNil(t, repo, "NewOrderRepo should return a non-nil repository")
}

func testOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+911234567890",
		ShippingAddress: &models.Address{
			Street: "14 MG Road", City: "Bengaluru", State: "Karnataka",
			PostalCode: "560001", Country: "IN",
		},
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Name: "Espresso Machine", Quantity: 2, UnitPrice: 200},
		},
		Subtotal:       400,
		Tax:            40,
		ShippingCharge: 50,
		TotalAmount:    490,
		PaymentMethod:  "card",
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
	}
}

func TestOrderRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewOrderRepo(db)
	ctx := t.Context()

	stockSQL := regexp.QuoteMeta(`UPDATE products`)
	orderSQL := regexp.QuoteMeta(`INSERT INTO orders`)
	itemSQL := regexp.QuoteMeta(`INSERT INTO order_items`)

	t.Run("CreateOrder", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			order := testOrder()
			item := order.Items[0]

			mock.ExpectBegin()
			mock.ExpectExec(stockSQL).
				WithArgs(item.Quantity, item.ProductID).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(orderSQL).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(itemSQL).
				WithArgs(item.ID, order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.NoError(t, err, "CreateOrder should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Insufficient Stock Rolls Back", func(t *testing.T) {
			// Arrange
			order := testOrder()
			item := order.Items[0]

			mock.ExpectBegin()
			mock.ExpectExec(stockSQL).
				WithArgs(item.Quantity, item.ProductID).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectRollback()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.Error(t, err)

			var stockErr *repository.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			assert.Equal(t, item.ProductID, stockErr.ProductID)
			assert.Equal(t, item.Quantity, stockErr.Requested)
			require.NoError(t, mock.ExpectationsWereMet(), "nothing may be written after a failed reservation")
		})

		t.Run("Failure - Insert Error Rolls Back", func(t *testing.T) {
			// Arrange
			order := testOrder()
			item := order.Items[0]

			mock.ExpectBegin()
			mock.ExpectExec(stockSQL).
				WithArgs(item.Quantity, item.ProductID).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(orderSQL).
				WillReturnError(errors.New("connection reset"))
			mock.ExpectRollback()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.Error(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetOrderByID", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			order := testOrder()
			now := time.Now()

			addressJSON, err := json.Marshal(order.ShippingAddress)
			require.NoError(t, err)

			mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).
				WithArgs(order.ID).
				WillReturnRows(sqlmock.NewRows([]string{
					"user_id", "customer_name", "customer_email", "customer_phone", "shipping_address",
					"subtotal", "discount", "tax", "shipping_charge", "total_amount", "promo_code",
					"payment_method", "status", "payment_status", "transaction_id", "delivered_at",
					"created_at", "updated_at",
				}).AddRow(order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
					addressJSON, order.Subtotal, order.Discount, order.Tax, order.ShippingCharge,
					order.TotalAmount, order.PromoCode, order.PaymentMethod, order.Status,
					order.PaymentStatus, nil, nil, now, now))
			mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
				WithArgs(order.ID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "quantity", "unit_price", "created_at"}).
					AddRow(order.Items[0].ID, order.Items[0].ProductID, order.Items[0].Name,
						order.Items[0].Quantity, order.Items[0].UnitPrice, now))

			// Act
			got, err := repo.GetOrderByID(ctx, order.ID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, order.ID, got.ID)
			assert.Equal(t, order.CustomerEmail, got.CustomerEmail)
			assert.Empty(t, got.TransactionID, "a NULL transaction id scans to the empty string")
			assert.Nil(t, got.DeliveredAt)
			require.Len(t, got.Items, 1)
			assert.Equal(t, order.ID, got.Items[0].OrderID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateOrderStatus", func(t *testing.T) {
		updateSQL := regexp.QuoteMeta(`UPDATE orders`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()

			mock.ExpectExec(updateSQL).
				WithArgs(models.OrderStatusConfirmed, nil, orderID, models.OrderStatusPending).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusConfirmed, nil)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - No Row Matched Means Concurrent Change", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()

			mock.ExpectExec(updateSQL).
				WithArgs(models.OrderStatusConfirmed, nil, orderID, models.OrderStatusPending).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusConfirmed, nil)

			// Assert
			require.ErrorIs(t, err, repository.ErrStatusConflict)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("MarkPaid", func(t *testing.T) {
		markPaidArgs := func(orderID uuid.UUID) []driver.Value {
			return []driver.Value{
				models.PaymentStatusPaid, models.OrderStatusConfirmed, "pi_123", orderID,
				models.PaymentStatusPending, models.PaymentStatusFailed, models.OrderStatusPending,
			}
		}

		t.Run("Success", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders`)).
				WithArgs(markPaidArgs(orderID)...).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			confirmed, err := repo.MarkPaid(ctx, orderID, "pi_123")

			// Assert
			require.NoError(t, err)
			assert.True(t, confirmed)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Success - Cancelled Order Left Untouched", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders`)).
				WithArgs(markPaidArgs(orderID)...).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			confirmed, err := repo.MarkPaid(ctx, orderID, "pi_123")

			// Assert
			require.NoError(t, err)
			assert.False(t, confirmed, "a cancelled order must not be confirmed by a late success")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
