package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/raadistore/storefront-platform/internal/cache"
	"github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	repository "github.com/raadistore/storefront-platform/internal/repositories"
)

type PricingService interface {
	GetActiveConfig(ctx context.Context) (*models.PricingConfig, error)
	UpdateConfig(ctx context.Context, req *models.UpdatePricingConfigRequest) (*models.PricingConfig, error)
}

type pricingService struct {
	repo       repository.PricingRepository
	cache      cache.Cache
	pricingTTL time.Duration
}

func NewPricingService(repo repository.PricingRepository, cache cache.Cache, pricingTTL time.Duration) PricingService {
	return &pricingService{repo: repo, cache: cache, pricingTTL: pricingTTL}
}

// GetActiveConfig returns the singleton configuration, or a zero-valued
// default when none has been written yet, so checkout is never blocked by
// missing configuration.
func (s *pricingService) GetActiveConfig(ctx context.Context) (*models.PricingConfig, error) {

	cached := &models.PricingConfig{}

	found, err := s.cache.Get(ctx, cache.PricingConfigKey, cached)
	if err != nil {
		slog.Warn("pricing config cache read failed", "error", err)
	}

	if found {
		return cached, nil
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.PricingConfig{}, nil
		}

		return nil, errors.DatabaseError("Failed to fetch pricing configuration").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.PricingConfigKey, cfg, s.pricingTTL); err != nil {
		slog.Warn("pricing config cache write failed", "error", err)
	}

	return cfg, nil
}

// UpdateConfig merges non-nil fields of the patch into the current config and
// upserts the result.
func (s *pricingService) UpdateConfig(ctx context.Context, req *models.UpdatePricingConfigRequest) (*models.PricingConfig, error) {

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, errors.DatabaseError("Failed to fetch pricing configuration").WithError(err)
		}

		cfg = &models.PricingConfig{}
	}

	if req.TaxPercent != nil {
		cfg.TaxPercent = *req.TaxPercent
	}
	if req.ShippingCharge != nil {
		cfg.ShippingCharge = *req.ShippingCharge
	}
	if req.FreeShippingThreshold != nil {
		cfg.FreeShippingThreshold = *req.FreeShippingThreshold
	}
	if req.MinOrderValue != nil {
		cfg.MinOrderValue = *req.MinOrderValue
	}
	if req.CODCharge != nil {
		cfg.CODCharge = *req.CODCharge
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, errors.DatabaseError("Failed to update pricing configuration").WithError(err)
	}

	// Stale reads until the next fill are acceptable; a failed invalidation
	// only extends them by the TTL.
	if err := s.cache.Delete(ctx, cache.PricingConfigKey); err != nil {
		slog.Warn("pricing config cache invalidation failed", "error", err)
	}

	return cfg, nil
}
