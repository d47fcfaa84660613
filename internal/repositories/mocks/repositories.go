// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, page, size int) ([]models.Product, int, error) {
	args := m.Called(ctx, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Product), args.Int(1), args.Error(2)
}

func (m *ProductRepository) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) UpsertCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersBySeller(ctx context.Context, sellerID string, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, sellerID, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

type SellerRepository struct {
	mock.Mock
}

func (m *SellerRepository) SellerExists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)

	return args.Bool(0), args.Error(1)
}

func (m *SellerRepository) GetSellerEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)

	return args.String(0), args.Error(1)
}

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)

	return args.Error(0)
}

func (m *PaymentRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepository) UpdateStatusByIntentID(ctx context.Context, intentID string, status models.PaymentStatus) error {
	args := m.Called(ctx, intentID, status)

	return args.Error(0)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckIntakeRateLimit(ctx context.Context, sellerID string) (bool, int, error) {
	args := m.Called(ctx, sellerID)

	return args.Bool(0), args.Int(1), args.Error(2)
}
