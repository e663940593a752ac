package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine holds one (product, quantity) pair. UnitPrice is captured from the
// live product at the time of the last add/update, not at first add.
// Name and ImageURL are display-only fields joined in on read; they are never
// stored with the cart.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Name      string    `json:"name,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
}

// Cart is owned by exactly one user. Lines are keyed by product id so that
// re-adding a product can never duplicate a line. TotalPrice and TotalItems
// are derived; call Recalculate after every mutation.
type Cart struct {
	ID         uuid.UUID           `json:"id"`
	UserID     uuid.UUID           `json:"user_id"`
	Lines      map[string]CartLine `json:"lines"`
	TotalPrice float64             `json:"total_price"`
	TotalItems int                 `json:"total_items"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Recalculate re-derives both totals from the full line set. Totals are never
// patched incrementally, so they cannot drift from the lines.
func (c *Cart) Recalculate() {
	var totalPrice float64

	var totalItems int

	for _, line := range c.Lines {
		totalPrice += line.UnitPrice * float64(line.Quantity)
		totalItems += line.Quantity
	}

	c.TotalPrice = totalPrice
	c.TotalItems = totalItems
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,min=1"`
}

// Quantity is deliberately unconstrained here: a value <= 0 means "remove the
// line", which the cart service handles explicitly.
type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
}

type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}
