package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
		SELECT id, category_id, name, description, image_url, price, mrp,
		       stock_quantity, sold_count, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.CategoryID, &product.Name,
		&product.Description, &product.ImageURL, &product.Price, &product.MRP,
		&product.StockQuantity, &product.SoldCount, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// GetProductsByIDs loads the display data for a set of products in one round
// trip; missing ids are simply absent from the result map.
func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if len(ids) == 0 {
		return map[uuid.UUID]*models.Product{}, nil
	}

	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, id.String())
	}

	query := `
		SELECT id, category_id, name, description, image_url, price, mrp,
		       stock_quantity, sold_count, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(idStrs))
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	defer rows.Close()

	products := make(map[uuid.UUID]*models.Product, len(ids))

	for rows.Next() {
		product := &models.Product{}

		err := rows.Scan(&product.ID, &product.CategoryID, &product.Name,
			&product.Description, &product.ImageURL, &product.Price, &product.MRP,
			&product.StockQuantity, &product.SoldCount, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
