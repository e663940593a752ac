package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PromoKind string

const (
	PromoKindPercentage PromoKind = "percentage"
	PromoKindFlat       PromoKind = "flat"
)

// PromoCode grants a percentage or flat discount, time-bounded and togglable.
// Codes are normalized to uppercase at write and lookup time, so matching is
// effectively case-insensitive.
type PromoCode struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Kind      PromoKind `json:"kind"`
	Amount    float64   `json:"amount"`
	ExpiresAt time.Time `json:"expires_at"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the promo is unusable at the given instant. The
// expiry instant itself counts as expired.
func (p *PromoCode) Expired(at time.Time) bool {
	return !at.Before(p.ExpiresAt)
}

// NormalizePromoCode is the single place promo codes are canonicalized.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CreatePromoRequest struct {
	Code      string    `json:"code" validate:"required,min=3,max=32"`
	Kind      PromoKind `json:"kind" validate:"required,oneof=percentage flat"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
	Active    bool      `json:"active"`
}

type ApplyPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// PromoResult is advisory: nothing is persisted until the order builder
// re-evaluates the promo at checkout.
type PromoResult struct {
	Discount   float64    `json:"discount"`
	FinalPrice float64    `json:"final_price"`
	Promo      *PromoCode `json:"promo"`
}
