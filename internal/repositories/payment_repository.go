package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/quickcart-io/quickcart/internal/utils"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	UpdateStatusByIntentID(ctx context.Context, paymentIntentID string, status models.PaymentStatus) error
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO payments (id, order_id, user_id, amount, currency, status, payment_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, payment.ID, payment.OrderID, payment.UserID, payment.Amount, payment.Currency, payment.Status, payment.PaymentIntentID).Scan(&payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, order_id, user_id, amount, currency, status, payment_intent_id, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	payment := &models.Payment{}

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&payment.ID, &payment.OrderID, &payment.UserID, &payment.Amount, &payment.Currency, &payment.Status, &payment.PaymentIntentID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) UpdateStatusByIntentID(ctx context.Context, paymentIntentID string, status models.PaymentStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE payment_intent_id = $2
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, paymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
