package models

import "time"

// PricingConfig is the current-state singleton applied at checkout. At most
// one record exists; writes are upserts, never inserts of a second row.
type PricingConfig struct {
	TaxPercent            float64   `json:"tax_percent"`
	ShippingCharge        float64   `json:"shipping_charge"`
	FreeShippingThreshold float64   `json:"free_shipping_threshold"`
	MinOrderValue         float64   `json:"min_order_value"`
	CODCharge             float64   `json:"cod_charge"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UpdatePricingConfigRequest patches individual fields; nil means "leave as
// is", mirroring upsert semantics.
type UpdatePricingConfigRequest struct {
	TaxPercent            *float64 `json:"tax_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	ShippingCharge        *float64 `json:"shipping_charge,omitempty" validate:"omitempty,gte=0"`
	FreeShippingThreshold *float64 `json:"free_shipping_threshold,omitempty" validate:"omitempty,gte=0"`
	MinOrderValue         *float64 `json:"min_order_value,omitempty" validate:"omitempty,gte=0"`
	CODCharge             *float64 `json:"cod_charge,omitempty" validate:"omitempty,gte=0"`
}
