package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/catalog"
	apperrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	repository "github.com/quickcart-io/quickcart/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, productID uuid.UUID) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.Cart, error)
	Summary(ctx context.Context, userID string) (*models.CartSummary, error)
}

type cartService struct {
	repo     repository.CartRepository
	snapshot *catalog.Store
}

func NewCartService(repo repository.CartRepository, snapshot *catalog.Store) CartService {
	return &cartService{repo: repo, snapshot: snapshot}
}

// GetCart returns the user's cart, materializing an empty one for first-time
// users without persisting it.
func (s *cartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.loadOrInit(ctx, userID)
}

// AddItem increments the quantity for the product, initializing it to 1. The
// mutation is written through before the handler answers, so the response is
// the authoritative cart and clients reconcile from it.
func (s *cartService) AddItem(ctx context.Context, userID string, productID uuid.UUID) (*models.Cart, error) {

	cart, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items[productID.String()]++
	cart.UpdatedAt = time.Now()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// UpdateQuantity sets the quantity exactly; zero removes the entry so a zero
// quantity is never stored.
func (s *cartService) UpdateQuantity(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.Cart, error) {

	if quantity < 0 {
		return nil, apperrors.ValidationError("Quantity cannot be negative")
	}

	cart, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		delete(cart.Items, productID.String())
	} else {
		cart.Items[productID.String()] = quantity
	}

	cart.UpdatedAt = time.Now()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// Summary recomputes count and amount from the stored mapping on every call.
// Amount prices each entry against the catalog snapshot by offer price;
// entries whose product is absent from the snapshot contribute zero. The
// total is floored to two decimals.
func (s *cartService) Summary(ctx context.Context, userID string) (*models.CartSummary, error) {

	cart, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.CartSummary{}

	var total float64

	for productID, quantity := range cart.Items {
		if quantity <= 0 {
			continue
		}

		summary.Count += quantity

		if product, ok := s.snapshot.Lookup(productID); ok {
			total += product.OfferPrice * float64(quantity)
		}
	}

	summary.Amount = amountFloor(total)

	return summary, nil
}

func (s *cartService) loadOrInit(ctx context.Context, userID string) (*models.Cart, error) {

	cart, err := s.repo.GetCartByUserID(ctx, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			now := time.Now()

			return &models.Cart{
				ID:        uuid.New(),
				UserID:    userID,
				Items:     make(map[string]int),
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}

		return nil, apperrors.DatabaseError("Failed to load cart").WithError(err)
	}

	if cart.Items == nil {
		cart.Items = make(map[string]int)
	}

	return cart, nil
}

// amountFloor truncates to two decimals; floor, not round.
func amountFloor(total float64) float64 {
	return math.Floor(total*100) / 100
}
