package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	apperrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	repository "github.com/quickcart-io/quickcart/internal/repositories"
	"github.com/quickcart-io/quickcart/pkg/sendgrid"
)

type OrderService interface {
	Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListSellerOrders(ctx context.Context, sellerID string, page, size int) ([]models.Order, int, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	sellerRepo  repository.SellerRepository
	authorizer  SellerAuthorizer
	mailer      sendgrid.Mailer
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, sellerRepo repository.SellerRepository, authorizer SellerAuthorizer, mailer sendgrid.Mailer) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		authorizer:  authorizer,
		mailer:      mailer,
	}
}

// Checkout turns the user's cart into an order: line items are priced by
// offer price from the product records, the delivery address is snapshotted,
// the cart is cleared. Cart entries for products that no longer exist are
// dropped silently, mirroring how the cart amount treats them.
func (s *orderService) Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.BadRequestError("Cannot checkout with an empty cart")
		}
		return nil, apperrors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, apperrors.BadRequestError("Cannot checkout with an empty cart")
	}

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	}

	var total float64

	sellerIDs := make(map[string]struct{})

	for productKey, quantity := range cart.Items {
		if quantity <= 0 {
			continue
		}

		productID, err := uuid.Parse(productKey)
		if err != nil {
			logger.Warn("Skipping malformed cart entry", slog.String("productId", productKey))
			continue
		}

		product, err := s.productRepo.GetProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				logger.Warn("Skipping delisted product at checkout", slog.String("productId", productKey))
				continue
			}
			return nil, apperrors.DatabaseError("Failed to load product").WithError(err)
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Quantity:  quantity,
			UnitPrice: product.OfferPrice,
		})

		total += product.OfferPrice * float64(quantity)
		sellerIDs[product.SellerID] = struct{}{}
	}

	if len(order.Items) == 0 {
		return nil, apperrors.BadRequestError("No purchasable items in cart")
	}

	order.Amount = amountFloor(total)

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, apperrors.DatabaseError("Failed to create order").WithError(err)
	}

	// Clear the cart now that the order owns the items.
	cart.Items = make(map[string]int)
	if err := s.cartRepo.UpsertCart(ctx, cart); err != nil {
		logger.Error("Order created but cart not cleared", slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
	}

	s.notifySellers(ctx, order, sellerIDs)

	return order, nil
}

// notifySellers emails each affected seller. Best effort: a mail failure
// never fails the checkout.
func (s *orderService) notifySellers(ctx context.Context, order *models.Order, sellerIDs map[string]struct{}) {

	logger := middleware.LoggerFromContext(ctx)

	for sellerID := range sellerIDs {
		email, err := s.sellerRepo.GetSellerEmail(ctx, sellerID)
		if err != nil || email == "" {
			logger.Warn("No seller email for order notification", slog.String("sellerId", sellerID))
			continue
		}

		subject := "New order received"
		body := fmt.Sprintf("Order %s was placed for %d item(s), total %.2f.", order.ID, len(order.Items), order.Amount)

		if err := s.mailer.Send(ctx, email, subject, body, ""); err != nil {
			logger.Warn("Seller notification failed", slog.String("sellerId", sellerID), slog.String("error", err.Error()))
		}
	}
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

// ListSellerOrders is the seller order view: only sellers may call it, and
// the result replaces the caller's view wholesale.
func (s *orderService) ListSellerOrders(ctx context.Context, sellerID string, page, size int) ([]models.Order, int, error) {

	if !s.authorizer.IsSeller(ctx, sellerID) {
		return nil, 0, apperrors.UnauthorizedError("Not authorized")
	}

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = defaultPageSize
	}

	orders, total, err := s.orderRepo.ListOrdersBySeller(ctx, sellerID, page, size)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}
