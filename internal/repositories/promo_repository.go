package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/raadistore/storefront-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicateCode is returned when a promo code already exists.
var ErrDuplicateCode = errors.New("promo code already exists")

type PromoRepository interface {
	CreatePromo(ctx context.Context, promo *models.PromoCode) error
	GetActiveByCode(ctx context.Context, code string) (*models.PromoCode, error)
	ListPromos(ctx context.Context) ([]models.PromoCode, error)
	DeletePromo(ctx context.Context, id uuid.UUID) error
}

type promoRepository struct {
	DB *sql.DB
}

func NewPromoRepo(db *sql.DB) PromoRepository {
	return &promoRepository{DB: db}
}

func (r *promoRepository) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO promo_codes (id, code, kind, amount, expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, promo.ID, promo.Code, promo.Kind,
		promo.Amount, promo.ExpiresAt, promo.Active).Scan(&promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateCode
		}

		return fmt.Errorf("failed to insert promo code: %w", err)
	}

	return nil
}

// GetActiveByCode matches the normalized code against active promos only;
// inactive promos are indistinguishable from absent ones.
func (r *promoRepository) GetActiveByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	promo := &models.PromoCode{}

	query := `
		SELECT id, code, kind, amount, expires_at, active, created_at, updated_at
		FROM promo_codes
		WHERE code = $1 AND active = true
	`

	err := r.DB.QueryRowContext(dbCtx, query, code).Scan(&promo.ID, &promo.Code, &promo.Kind,
		&promo.Amount, &promo.ExpiresAt, &promo.Active, &promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return promo, nil
}

func (r *promoRepository) ListPromos(ctx context.Context) ([]models.PromoCode, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, code, kind, amount, expires_at, active, created_at, updated_at
		FROM promo_codes
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}

	defer rows.Close()

	var promos []models.PromoCode

	for rows.Next() {
		var promo models.PromoCode

		err := rows.Scan(&promo.ID, &promo.Code, &promo.Kind, &promo.Amount,
			&promo.ExpiresAt, &promo.Active, &promo.CreatedAt, &promo.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}

		promos = append(promos, promo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return promos, nil
}

func (r *promoRepository) DeletePromo(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
