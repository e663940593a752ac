package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Mutate(ctx context.Context, userID uuid.UUID, fn func(cart *models.Cart) error) (*models.Cart, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, lines, total_price, total_items, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	return scanCart(r.DB.QueryRowContext(dbCtx, query, userID))
}

// Mutate runs fn against the user's cart under a row lock, so concurrent
// mutations of the same cart serialize instead of losing updates. The cart
// row is created lazily on first use and survives clears; only its lines
// change.
func (r *cartRepository) Mutate(ctx context.Context, userID uuid.UUID, fn func(cart *models.Cart) error) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var cart *models.Cart

	err := withinTx(dbCtx, r.DB, func(tx *sql.Tx) error {

		insertQuery := `
			INSERT INTO carts (id, user_id, lines, total_price, total_items, created_at, updated_at)
			VALUES ($1, $2, '{}', 0, 0, NOW(), NOW())
			ON CONFLICT (user_id) DO NOTHING
		`

		if _, err := tx.ExecContext(dbCtx, insertQuery, uuid.New(), userID); err != nil {
			return fmt.Errorf("failed to ensure cart row: %w", err)
		}

		lockQuery := `
			SELECT id, user_id, lines, total_price, total_items, created_at, updated_at
			FROM carts
			WHERE user_id = $1
			FOR UPDATE
		`

		var err error

		cart, err = scanCart(tx.QueryRowContext(dbCtx, lockQuery, userID))
		if err != nil {
			return err
		}

		if err := fn(cart); err != nil {
			return err
		}

		cart.Recalculate()
		cart.UpdatedAt = time.Now()

		linesJSON, err := json.Marshal(cart.Lines)
		if err != nil {
			return fmt.Errorf("failed to marshal cart lines: %w", err)
		}

		updateQuery := `
			UPDATE carts
			SET lines = $1, total_price = $2, total_items = $3, updated_at = $4
			WHERE id = $5
		`

		result, err := tx.ExecContext(dbCtx, updateQuery, linesJSON, cart.TotalPrice, cart.TotalItems, cart.UpdatedAt, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to update the cart: %w", err)
		}

		updatedRows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get updated rows: %w", err)
		}

		if updatedRows == 0 {
			return sql.ErrNoRows
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return cart, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCart(row rowScanner) (*models.Cart, error) {

	cart := &models.Cart{}

	var linesJSON []byte

	err := row.Scan(&cart.ID, &cart.UserID, &linesJSON, &cart.TotalPrice, &cart.TotalItems, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(linesJSON, &cart.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart lines: %w", err)
	}

	if cart.Lines == nil {
		cart.Lines = make(map[string]models.CartLine)
	}

	return cart, nil
}
