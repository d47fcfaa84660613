package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/catalog"
	appErrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	repomocks "github.com/quickcart-io/quickcart/internal/repositories/mocks"
	service "github.com/quickcart-io/quickcart/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCartTest() (*repomocks.CartRepository, *catalog.Store, service.CartService) {
	mockRepo := new(repomocks.CartRepository)
	snapshot := catalog.NewStore()
	cartService := service.NewCartService(mockRepo, snapshot)

	return mockRepo, snapshot, cartService
}

func existingCart(userID string, items map[string]int) *models.Cart {
	return &models.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("Success - Existing Cart", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		stored := existingCart(userID, map[string]int{uuid.NewString(): 2})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()

		cart, err := cartService.GetCart(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, stored.ID, cart.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - First-Time User Gets Empty Cart Without Persisting", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		mockRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		cart, err := cartService.GetCart(ctx, userID)

		assert.NoError(t, err)
		assert.NotNil(t, cart)
		assert.Empty(t, cart.Items)
		assert.Equal(t, userID, cart.UserID)
		mockRepo.AssertNotCalled(t, "UpsertCart", mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		dbError := errors.New("database connection failed")
		mockRepo.On("GetCartByUserID", ctx, userID).Return(nil, dbError).Once()

		cart, err := cartService.GetCart(ctx, userID)

		assert.Error(t, err)
		assert.Nil(t, cart)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	productID := uuid.New()

	t.Run("Success - New Item Starts At One", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		mockRepo.On("GetCartByUserID", ctx, userID).Return(existingCart(userID, map[string]int{}), nil).Once()
		mockRepo.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, userID, productID)

		assert.NoError(t, err)
		assert.Equal(t, 1, cart.Items[productID.String()])
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Repeated Adds Accumulate", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		stored := existingCart(userID, map[string]int{productID.String(): 2})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()
		mockRepo.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.AddItem(ctx, userID, productID)

		assert.NoError(t, err)
		assert.Equal(t, 3, cart.Items[productID.String()])
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Write Error Surfaces", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		mockRepo.On("GetCartByUserID", ctx, userID).Return(existingCart(userID, map[string]int{}), nil).Once()
		mockRepo.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(errors.New("write failed")).Once()

		cart, err := cartService.AddItem(ctx, userID, productID)

		assert.Error(t, err)
		assert.Nil(t, cart)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	productID := uuid.New()

	t.Run("Success - Sets Exact Quantity", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		stored := existingCart(userID, map[string]int{productID.String(): 1})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()
		mockRepo.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.UpdateQuantity(ctx, userID, productID, 5)

		assert.NoError(t, err)
		assert.Equal(t, 5, cart.Items[productID.String()])
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Zero Removes The Entry", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		stored := existingCart(userID, map[string]int{productID.String(): 4})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()
		mockRepo.On("UpsertCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		cart, err := cartService.UpdateQuantity(ctx, userID, productID, 0)

		assert.NoError(t, err)
		assert.NotContains(t, cart.Items, productID.String())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Negative Quantity Rejected Before Any Read", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()

		cart, err := cartService.UpdateQuantity(ctx, userID, productID, -1)

		assert.Error(t, err)
		assert.Nil(t, cart)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		mockRepo.AssertNotCalled(t, "GetCartByUserID", mock.Anything, mock.Anything)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("Success - Count And Amount Recomputed From Items", func(t *testing.T) {
		mockRepo, snapshot, cartService := setupCartTest()

		first := models.Product{ID: uuid.New(), OfferPrice: 100.50}
		second := models.Product{ID: uuid.New(), OfferPrice: 24.99}
		snapshot.Replace([]models.Product{first, second})

		stored := existingCart(userID, map[string]int{
			first.ID.String():  2,
			second.ID.String(): 1,
		})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()

		summary, err := cartService.Summary(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 3, summary.Count)
		assert.Equal(t, 225.99, summary.Amount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Amount Is Floored Not Rounded", func(t *testing.T) {
		mockRepo, snapshot, cartService := setupCartTest()

		product := models.Product{ID: uuid.New(), OfferPrice: 19.995}
		snapshot.Replace([]models.Product{product})

		stored := existingCart(userID, map[string]int{product.ID.String(): 3})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()

		summary, err := cartService.Summary(ctx, userID)

		assert.NoError(t, err)
		// 19.995 * 3 = 59.985, floored to two decimals.
		assert.Equal(t, 59.98, summary.Amount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Absent Product Counts But Contributes Nothing", func(t *testing.T) {
		mockRepo, snapshot, cartService := setupCartTest()

		known := models.Product{ID: uuid.New(), OfferPrice: 10}
		snapshot.Replace([]models.Product{known})

		stored := existingCart(userID, map[string]int{
			known.ID.String(): 1,
			uuid.NewString():  5, // delisted, not in snapshot
		})
		mockRepo.On("GetCartByUserID", ctx, userID).Return(stored, nil).Once()

		summary, err := cartService.Summary(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 6, summary.Count)
		assert.Equal(t, 10.0, summary.Amount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Empty Cart Summarizes To Zero", func(t *testing.T) {
		mockRepo, _, cartService := setupCartTest()
		mockRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		summary, err := cartService.Summary(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.Count)
		assert.Equal(t, 0.0, summary.Amount)
		mockRepo.AssertExpectations(t)
	})
}
