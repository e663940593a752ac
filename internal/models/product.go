package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is owned by the catalog subsystem; the order pipeline treats it as
// a read-only priced, stockable entity and re-reads price and stock at the
// moment of order creation rather than trusting client-supplied figures.
type Product struct {
	ID            uuid.UUID `json:"id"`
	CategoryID    int64     `json:"category_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	Price         float64   `json:"price"`
	MRP           float64   `json:"mrp"`
	StockQuantity int       `json:"stock_quantity"`
	SoldCount     int       `json:"sold_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
