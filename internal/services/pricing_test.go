package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/raadistore/storefront-platform/internal/cache"
	appErrors "github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/repositories/mocks"
	service "github.com/raadistore/storefront-platform/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestGetActiveConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Cache Hit Skips The Database", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockCache := new(cacheMock)

		mockCache.On("Get", ctx, cache.PricingConfigKey, mock.AnythingOfType("*models.PricingConfig")).
			Run(func(args mock.Arguments) {
				cfg := args.Get(2).(*models.PricingConfig)
				cfg.TaxPercent = 18
			}).Return(true, nil).Once()

		pricingService := service.NewPricingService(mockRepo, mockCache, time.Minute)

		// Act
		cfg, err := pricingService.GetActiveConfig(ctx)

		// Assert
		require.NoError(t, err)
		assert.InDelta(t, 18.0, cfg.TaxPercent, 0.001)
		mockRepo.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("Success - Miss Fills The Cache", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockCache := new(cacheMock)

		stored := &models.PricingConfig{TaxPercent: 10, ShippingCharge: 50}

		mockCache.On("Get", ctx, cache.PricingConfigKey, mock.Anything).Return(false, nil).Once()
		mockRepo.On("Get", ctx).Return(stored, nil).Once()
		mockCache.On("Set", ctx, cache.PricingConfigKey, stored, time.Minute).Return(nil).Once()

		pricingService := service.NewPricingService(mockRepo, mockCache, time.Minute)

		// Act
		cfg, err := pricingService.GetActiveConfig(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, stored, cfg)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - No Row Yields Zero Defaults", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockRepo.On("Get", ctx).Return(nil, sql.ErrNoRows).Once()

		pricingService := service.NewPricingService(mockRepo, missCache(), time.Minute)

		// Act
		cfg, err := pricingService.GetActiveConfig(ctx)

		// Assert
		require.NoError(t, err, "missing configuration must never block checkout")
		assert.Zero(t, cfg.TaxPercent)
		assert.Zero(t, cfg.ShippingCharge)
		assert.Zero(t, cfg.MinOrderValue)
	})

	t.Run("Success - Cache Read Error Falls Through To The Database", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockCache := new(cacheMock)

		mockCache.On("Get", ctx, cache.PricingConfigKey, mock.Anything).
			Return(false, errors.New("redis down")).Once()
		mockRepo.On("Get", ctx).Return(&models.PricingConfig{TaxPercent: 5}, nil).Once()
		mockCache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis down")).Once()

		pricingService := service.NewPricingService(mockRepo, mockCache, time.Minute)

		// Act
		cfg, err := pricingService.GetActiveConfig(ctx)

		// Assert
		require.NoError(t, err, "a cache outage must degrade, not fail")
		assert.InDelta(t, 5.0, cfg.TaxPercent, 0.001)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockRepo.On("Get", ctx).Return(nil, errors.New("connection reset")).Once()

		pricingService := service.NewPricingService(mockRepo, missCache(), time.Minute)

		// Act
		_, err := pricingService.GetActiveConfig(ctx)

		// Assert
		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestUpdateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Patch Merges Into Current Config", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockCache := new(cacheMock)

		current := &models.PricingConfig{TaxPercent: 10, ShippingCharge: 50, MinOrderValue: 100}

		mockRepo.On("Get", ctx).Return(current, nil).Once()
		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(cfg *models.PricingConfig) bool {
			// Patched fields take the new value, untouched fields survive.
			return cfg.TaxPercent == 18 && cfg.ShippingCharge == 50 && cfg.MinOrderValue == 100
		})).Return(nil).Once()
		mockCache.On("Delete", ctx, cache.PricingConfigKey).Return(nil).Once()

		pricingService := service.NewPricingService(mockRepo, mockCache, time.Minute)

		// Act
		cfg, err := pricingService.UpdateConfig(ctx, &models.UpdatePricingConfigRequest{TaxPercent: floatPtr(18)})

		// Assert
		require.NoError(t, err)
		assert.InDelta(t, 18.0, cfg.TaxPercent, 0.001)
		assert.InDelta(t, 50.0, cfg.ShippingCharge, 0.001)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - First Write Starts From Zero Defaults", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)

		mockRepo.On("Get", ctx).Return(nil, sql.ErrNoRows).Once()
		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(cfg *models.PricingConfig) bool {
			return cfg.TaxPercent == 12 && cfg.ShippingCharge == 0
		})).Return(nil).Once()

		pricingService := service.NewPricingService(mockRepo, missCache(), time.Minute)

		// Act
		cfg, err := pricingService.UpdateConfig(ctx, &models.UpdatePricingConfigRequest{TaxPercent: floatPtr(12)})

		// Assert
		require.NoError(t, err)
		assert.InDelta(t, 12.0, cfg.TaxPercent, 0.001)
	})

	t.Run("Success - Failed Invalidation Does Not Fail The Update", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)
		mockCache := new(cacheMock)

		mockRepo.On("Get", ctx).Return(&models.PricingConfig{}, nil).Once()
		mockRepo.On("Upsert", ctx, mock.Anything).Return(nil).Once()
		mockCache.On("Delete", ctx, cache.PricingConfigKey).Return(errors.New("redis down")).Once()

		pricingService := service.NewPricingService(mockRepo, mockCache, time.Minute)

		// Act
		_, err := pricingService.UpdateConfig(ctx, &models.UpdatePricingConfigRequest{CODCharge: floatPtr(25)})

		// Assert
		require.NoError(t, err)
	})

	t.Run("Failure - Upsert Error", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.PricingRepository)

		mockRepo.On("Get", ctx).Return(&models.PricingConfig{}, nil).Once()
		mockRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

		pricingService := service.NewPricingService(mockRepo, missCache(), time.Minute)

		// Act
		_, err := pricingService.UpdateConfig(ctx, &models.UpdatePricingConfigRequest{TaxPercent: floatPtr(9)})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}
