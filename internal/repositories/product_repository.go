package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/quickcart-io/quickcart/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int) ([]models.Product, int, error)
	ListAllProducts(ctx context.Context) ([]models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// Image URLs are stored as a JSONB array so their order survives intact.
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal image urls: %w", err)
	}

	query := `INSERT INTO products (id, seller_id, name, description, category, price, offer_price, images)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING created_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.ID, product.SellerID, product.Name, product.Description, product.Category, product.Price, product.OfferPrice, imagesJSON).Scan(&product.CreatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, seller_id, name, description, category, price, offer_price, images, created_at
		FROM products
		WHERE id = $1`

	product := &models.Product{}

	var imagesJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.SellerID, &product.Name, &product.Description, &product.Category, &product.Price, &product.OfferPrice, &imagesJSON, &product.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(imagesJSON, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to unmarshal image urls: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`

	err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, seller_id, name, description, category, price, offer_price, images, created_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListAllProducts feeds the in-memory catalog snapshot.
func (r *productRepository) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, seller_id, name, description, category, price, offer_price, images, created_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {

	var products []models.Product

	for rows.Next() {
		var product models.Product
		var imagesJSON []byte

		err := rows.Scan(&product.ID, &product.SellerID, &product.Name, &product.Description, &product.Category, &product.Price, &product.OfferPrice, &imagesJSON, &product.CreatedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(imagesJSON, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal image urls: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
