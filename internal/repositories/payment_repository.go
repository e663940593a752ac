package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/utils"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	// MarkStatus moves a pending payment to a terminal status and reports
	// whether the transition was applied; false means the payment was already
	// terminal (a webhook replay).
	MarkStatus(ctx context.Context, transactionID string, status models.TransactionStatus, rawPayload []byte) (bool, error)
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO payments (id, order_id, transaction_id, amount, status, raw_payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, payment.ID, payment.OrderID, payment.TransactionID,
		payment.Amount, payment.Status, payment.RawPayload).Scan(&payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	payment := &models.Payment{}

	query := `
		SELECT id, order_id, transaction_id, amount, status, raw_payload, created_at, updated_at
		FROM payments
		WHERE transaction_id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, transactionID).Scan(&payment.ID, &payment.OrderID,
		&payment.TransactionID, &payment.Amount, &payment.Status, &payment.RawPayload,
		&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) MarkStatus(ctx context.Context, transactionID string, status models.TransactionStatus, rawPayload []byte) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE payments
		SET status = $1, raw_payload = $2, updated_at = NOW()
		WHERE transaction_id = $3 AND status = $4
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, rawPayload, transactionID, models.TransactionStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return updatedRows > 0, nil
}
