package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/utils"
)

type PricingRepository interface {
	Get(ctx context.Context) (*models.PricingConfig, error)
	Upsert(ctx context.Context, cfg *models.PricingConfig) error
}

type pricingRepository struct {
	DB *sql.DB
}

func NewPricingRepo(db *sql.DB) PricingRepository {
	return &pricingRepository{DB: db}
}

func (r *pricingRepository) Get(ctx context.Context) (*models.PricingConfig, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cfg := &models.PricingConfig{}

	query := `
		SELECT tax_percent, shipping_charge, free_shipping_threshold, min_order_value, cod_charge, updated_at
		FROM pricing_config
		WHERE id = 1
	`

	err := r.DB.QueryRowContext(dbCtx, query).Scan(&cfg.TaxPercent, &cfg.ShippingCharge,
		&cfg.FreeShippingThreshold, &cfg.MinOrderValue, &cfg.CODCharge, &cfg.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return cfg, nil
}

// Upsert writes the singleton row in place; the fixed id guarantees the
// configuration can never multiply.
func (r *pricingRepository) Upsert(ctx context.Context, cfg *models.PricingConfig) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO pricing_config (id, tax_percent, shipping_charge, free_shipping_threshold, min_order_value, cod_charge, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET tax_percent = EXCLUDED.tax_percent,
		    shipping_charge = EXCLUDED.shipping_charge,
		    free_shipping_threshold = EXCLUDED.free_shipping_threshold,
		    min_order_value = EXCLUDED.min_order_value,
		    cod_charge = EXCLUDED.cod_charge,
		    updated_at = NOW()
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, cfg.TaxPercent, cfg.ShippingCharge,
		cfg.FreeShippingThreshold, cfg.MinOrderValue, cfg.CODCharge).Scan(&cfg.UpdatedAt)
}
