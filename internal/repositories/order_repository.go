package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/quickcart-io/quickcart/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID string, page, size int) ([]models.Order, int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	addressJSON, err := json.Marshal(order.Address)
	if err != nil {
		return fmt.Errorf("failed to marshal address: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, user_id, address, amount, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, orderQuery, order.ID, order.UserID, addressJSON, order.Amount, order.PaymentMethod).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, seller_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	for i := range order.Items {
		item := &order.Items[i]

		err = tx.QueryRowContext(dbCtx, itemQuery, item.ID, item.OrderID, item.ProductID, item.SellerID, item.Quantity, item.UnitPrice).Scan(&item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, address, amount, payment_method, created_at
		FROM orders
		WHERE id = $1
	`

	order := &models.Order{}

	var addressJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&order.ID, &order.UserID, &addressJSON, &order.Amount, &order.PaymentMethod, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
		return nil, fmt.Errorf("failed to unmarshal address: %w", err)
	}

	items, err := r.itemsForOrders(dbCtx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}

	order.Items = items[order.ID.String()]

	return order, nil
}

// ListOrdersBySeller returns orders containing at least one product owned by
// the seller, newest first. Ownership is derived through the order items,
// which carry the seller ID captured at checkout.
func (r *orderRepository) ListOrdersBySeller(ctx context.Context, sellerID string, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `
		SELECT COUNT(DISTINCT o.id)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.seller_id = $1
	`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, sellerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT DISTINCT o.id, o.user_id, o.address, o.amount, o.payment_method, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.seller_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, sellerID, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var orders []models.Order
	var orderIDs []uuid.UUID

	for rows.Next() {
		var order models.Order
		var addressJSON []byte

		err := rows.Scan(&order.ID, &order.UserID, &addressJSON, &order.Amount, &order.PaymentMethod, &order.CreatedAt)
		if err != nil {
			return nil, 0, err
		}

		if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal address: %w", err)
		}

		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(orderIDs) > 0 {
		items, err := r.itemsForOrders(dbCtx, orderIDs)
		if err != nil {
			return nil, 0, err
		}

		for i := range orders {
			orders[i].Items = items[orders[i].ID.String()]
		}
	}

	return orders, total, nil
}

// itemsForOrders loads line items with their product summaries in one query.
func (r *orderRepository) itemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[string][]models.OrderItem, error) {

	ids := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		ids = append(ids, id.String())
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.seller_id, oi.quantity, oi.unit_price, oi.created_at,
		       p.name, p.offer_price, p.images
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	result := make(map[string][]models.OrderItem)

	for rows.Next() {
		var item models.OrderItem
		var product models.Product
		var imagesJSON []byte

		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.SellerID, &item.Quantity, &item.UnitPrice, &item.CreatedAt,
			&product.Name, &product.OfferPrice, &imagesJSON)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(imagesJSON, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal image urls: %w", err)
		}

		product.ID = item.ProductID
		product.SellerID = item.SellerID
		item.Product = &product

		key := item.OrderID.String()
		result[key] = append(result[key], item)
	}

	return result, rows.Err()
}
