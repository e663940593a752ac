package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// orderTransitions encodes the order state machine. cancelled is reachable
// only from pending and confirmed; delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// OrderItem is a snapshot: UnitPrice is the product price at order time and
// never tracks later catalog edits.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

// Amount is the extended line total at the snapshot price.
func (i OrderItem) Amount() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is created once per checkout and immutable afterwards except for its
// status fields and the delivered timestamp.
type Order struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	ShippingAddress *Address      `json:"shipping_address"`
	Items           []OrderItem   `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	Discount        float64       `json:"discount"`
	Tax             float64       `json:"tax"`
	ShippingCharge  float64       `json:"shipping_charge"`
	TotalAmount     float64       `json:"total_amount"`
	PromoCode       string        `json:"promo_code,omitempty"`
	PaymentMethod   string        `json:"payment_method"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	TransactionID   string        `json:"transaction_id,omitempty"`
	DeliveredAt     *time.Time    `json:"delivered_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type CreateOrderRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone   string  `json:"customer_phone" validate:"required,min=7,max=20"`
	ShippingAddress Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=card cod"`
	PromoCode       string  `json:"promo_code,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// ListOrdersQuery carries the admin listing filters parsed from the query
// string.
type ListOrdersQuery struct {
	Page   int
	Limit  int
	Search string
	Status OrderStatus
}
