package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the gateway-side status of a Payment row, distinct
// from the Order's PaymentStatus.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Payment links one gateway transaction to at most one order. RawPayload
// keeps the last gateway payload verbatim for audit.
type Payment struct {
	ID            uuid.UUID         `json:"id"`
	OrderID       uuid.UUID         `json:"order_id"`
	TransactionID string            `json:"transaction_id"`
	Amount        float64           `json:"amount"`
	Status        TransactionStatus `json:"status"`
	RawPayload    []byte            `json:"-"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type InitiatePaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Amount  float64   `json:"amount" validate:"required,gt=0"`
}

type InitiatePaymentResponse struct {
	TransactionID string `json:"transaction_id"`
	ClientSecret  string `json:"client_secret,omitempty"`
}
