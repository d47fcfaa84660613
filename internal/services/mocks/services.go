// Package mocks provides testify mocks for the service interfaces, used by
// the handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/stretchr/testify/mock"
)

type ProductService struct {
	mock.Mock
}

func (m *ProductService) CreateProduct(ctx context.Context, sellerID string, req *models.CreateProductRequest, images []models.ImageUpload) (*models.Product, error) {
	args := m.Called(ctx, sellerID, req, images)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]models.Product, int, error) {
	args := m.Called(ctx, page, pageSize)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Product), args.Int(1), args.Error(2)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID string, productID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) Summary(ctx context.Context, userID string) (*models.CartSummary, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CartSummary), args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListSellerOrders(ctx context.Context, sellerID string, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, sellerID, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

type PaymentService struct {
	mock.Mock
}

func (m *PaymentService) CreatePayment(ctx context.Context, userID string, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PaymentResponse), args.Error(1)
}

func (m *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)

	return args.Error(0)
}

type SellerAuthorizer struct {
	mock.Mock
}

func (m *SellerAuthorizer) IsSeller(ctx context.Context, userID string) bool {
	args := m.Called(ctx, userID)

	return args.Bool(0)
}
