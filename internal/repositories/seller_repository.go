package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quickcart-io/quickcart/internal/utils"
)

// SellerRepository answers whether a principal holds seller privileges and
// exposes the contact address used for order notifications.
type SellerRepository interface {
	SellerExists(ctx context.Context, userID string) (bool, error)
	GetSellerEmail(ctx context.Context, userID string) (string, error)
}

type sellerRepository struct {
	DB *sql.DB
}

func NewSellerRepo(db *sql.DB) SellerRepository {
	return &sellerRepository{DB: db}
}

func (r *sellerRepository) SellerExists(ctx context.Context, userID string) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT EXISTS(SELECT 1 FROM sellers WHERE user_id = $1)`

	var exists bool

	if err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("querying database: %w", err)
	}

	return exists, nil
}

func (r *sellerRepository) GetSellerEmail(ctx context.Context, userID string) (string, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT email FROM sellers WHERE user_id = $1`

	var email string

	if err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&email); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("querying database: %w", err)
	}

	return email, nil
}
