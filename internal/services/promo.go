package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	repository "github.com/raadistore/storefront-platform/internal/repositories"
	"github.com/google/uuid"
)

type PromoService interface {
	ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*models.PromoResult, error)
	CreatePromo(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, error)
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	DeletePromo(ctx context.Context, id uuid.UUID) error
}

type promoService struct {
	repo     repository.PromoRepository
	cartRepo repository.CartRepository
	now      func() time.Time
}

func NewPromoService(repo repository.PromoRepository, cartRepo repository.CartRepository) PromoService {
	return &promoService{repo: repo, cartRepo: cartRepo, now: time.Now}
}

// ApplyPromo evaluates a promo code against the caller's current cart. The
// result is advisory: nothing is persisted, and any cart mutation afterwards
// requires re-applying the code.
func (s *promoService) ApplyPromo(ctx context.Context, userID uuid.UUID, code string) (*models.PromoResult, error) {

	promo, err := lookupUsablePromo(ctx, s.repo, code, s.now())
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundError("Cart not found")
		}

		return nil, apperrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if cart.IsEmpty() {
		return nil, apperrors.BadRequestError("Cart is empty")
	}

	discount, finalPrice := EvaluateDiscount(promo, cart.TotalPrice)

	return &models.PromoResult{
		Discount:   discount,
		FinalPrice: finalPrice,
		Promo:      promo,
	}, nil
}

// lookupUsablePromo fetches an active, unexpired promo by normalized code.
// Absent, inactive, and expired promos each map to a declared failure. The
// order builder shares this lookup so checkout and preview agree on what a
// usable promo is.
func lookupUsablePromo(ctx context.Context, repo repository.PromoRepository, code string, at time.Time) (*models.PromoCode, error) {

	promo, err := repo.GetActiveByCode(ctx, models.NormalizePromoCode(code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFoundError("Promo code not found")
		}

		return nil, apperrors.DatabaseError("Failed to fetch promo code").WithError(err)
	}

	if promo.Expired(at) {
		return nil, apperrors.ConflictError("Promo code has expired")
	}

	return promo, nil
}

// EvaluateDiscount computes the discount a promo grants against a subtotal
// and the resulting payable amount. The final price is clamped at zero; a
// flat promo larger than the subtotal never drives the total negative.
func EvaluateDiscount(promo *models.PromoCode, subtotal float64) (discount, finalPrice float64) {

	switch promo.Kind {
	case models.PromoKindPercentage:
		discount = subtotal * promo.Amount / 100
	case models.PromoKindFlat:
		discount = promo.Amount
	}

	finalPrice = subtotal - discount
	if finalPrice < 0 {
		discount = subtotal
		finalPrice = 0
	}

	return discount, finalPrice
}

func (s *promoService) CreatePromo(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, error) {

	promo := &models.PromoCode{
		ID:        uuid.New(),
		Code:      models.NormalizePromoCode(req.Code),
		Kind:      req.Kind,
		Amount:    req.Amount,
		ExpiresAt: req.ExpiresAt,
		Active:    req.Active,
	}

	if err := s.repo.CreatePromo(ctx, promo); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, apperrors.DuplicateEntryError("A promo with this code already exists")
		}

		return nil, apperrors.DatabaseError("Failed to create promo code").WithError(err)
	}

	return promo, nil
}

func (s *promoService) ListPromos(ctx context.Context) ([]models.PromoCode, error) {

	promos, err := s.repo.ListPromos(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch promo codes").WithError(err)
	}

	return promos, nil
}

func (s *promoService) DeletePromo(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeletePromo(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apperrors.NotFoundError("Promo code not found")
		}

		return apperrors.DatabaseError("Failed to delete promo code").WithError(err)
	}

	return nil
}
