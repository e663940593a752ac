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
	"github.com/google/uuid"
)

type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, req *models.RemoveItemRequest) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	cache       cache.Cache
	productTTL  time.Duration
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, cache cache.Cache, productTTL time.Duration) CartService {
	return &cartService{repo: repo, productRepo: productRepo, cache: cache, productTTL: productTTL}
}

// AddItem adds a product to the cart or increments its line. The unit price
// is refreshed from the live product on every add, so re-touching a line
// picks up catalog price changes.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	product, err := s.getProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Mutate(ctx, userID, func(cart *models.Cart) error {
		key := req.ProductID.String()

		line := cart.Lines[key]
		line.ProductID = req.ProductID
		line.Quantity += req.Quantity
		line.UnitPrice = product.Price

		// The cumulative line quantity is checked against live stock here;
		// checkout re-checks atomically, so this is a fast fail, not the
		// oversell guard.
		if line.Quantity > product.StockQuantity {
			return errors.ConflictError("Insufficient stock for product").
				WithDetail(product.Name)
		}

		cart.Lines[key] = line

		return nil
	})
	if err != nil {
		return nil, wrapCartError(err, "Failed to add item to cart")
	}

	return cart, nil
}

// UpdateQuantity sets a line's quantity outright. A quantity of zero or less
// removes the line, equivalent to RemoveItem.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	if req.Quantity <= 0 {
		return s.RemoveItem(ctx, userID, &models.RemoveItemRequest{ProductID: req.ProductID})
	}

	product, err := s.getProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Mutate(ctx, userID, func(cart *models.Cart) error {
		key := req.ProductID.String()

		if _, ok := cart.Lines[key]; !ok {
			return errors.NotFoundError("Item not found in cart")
		}

		cart.Lines[key] = models.CartLine{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		}

		return nil
	})
	if err != nil {
		return nil, wrapCartError(err, "Failed to update cart item")
	}

	return cart, nil
}

// RemoveItem drops a line from the cart. Removing an absent line is a no-op
// success, so retried deletes stay safe.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, req *models.RemoveItemRequest) (*models.Cart, error) {

	cart, err := s.repo.Mutate(ctx, userID, func(cart *models.Cart) error {
		delete(cart.Lines, req.ProductID.String())

		return nil
	})
	if err != nil {
		return nil, wrapCartError(err, "Failed to remove item from cart")
	}

	return cart, nil
}

// Clear empties all lines and zeroes totals. The cart row itself persists
// for future reuse.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.Mutate(ctx, userID, func(cart *models.Cart) error {
		cart.Lines = make(map[string]models.CartLine)

		return nil
	})
	if err != nil {
		return nil, wrapCartError(err, "Failed to clear cart")
	}

	return cart, nil
}

// GetCart returns the cart with live product name/image joined in for
// display. Totals always come from the stored unit prices, so a catalog
// price change never silently moves the cart total.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.Cart{
				UserID: userID,
				Lines:  make(map[string]models.CartLine),
			}, nil
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if cart.IsEmpty() {
		return cart, nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart products").WithError(err)
	}

	for key, line := range cart.Lines {
		if product, ok := products[line.ProductID]; ok {
			line.Name = product.Name
			line.ImageURL = product.ImageURL
			cart.Lines[key] = line
		}
	}

	return cart, nil
}

// getProduct reads a product through the cache; misses fall back to the
// repository and refill the cache.
func (s *cartService) getProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	cacheKey := cache.Key(cache.ProductKeyPrefix, id.String())

	product := &models.Product{}

	found, err := s.cache.Get(ctx, cacheKey, product)
	if err != nil {
		slog.Warn("product cache read failed", "error", err, "productId", id)
	}

	if found {
		return product, nil
	}

	product, err = s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, product, s.productTTL); err != nil {
		slog.Warn("product cache write failed", "error", err, "productId", id)
	}

	return product, nil
}

// wrapCartError keeps AppErrors raised inside a mutation intact and wraps
// everything else as a database failure.
func wrapCartError(err error, message string) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}

	return errors.DatabaseError(message).WithError(err)
}
