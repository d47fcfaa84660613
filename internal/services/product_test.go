package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/catalog"
	appErrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	repomocks "github.com/quickcart-io/quickcart/internal/repositories/mocks"
	service "github.com/quickcart-io/quickcart/internal/services"
	svcmocks "github.com/quickcart-io/quickcart/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMediaClient struct {
	mock.Mock
}

func (m *mockMediaClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)

	return args.String(0), args.Error(1)
}

func (m *mockMediaClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)

	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *mockCache) Close() error {
	args := m.Called()

	return args.Error(0)
}

type productTestDeps struct {
	repo       *repomocks.ProductRepository
	media      *mockMediaClient
	authorizer *svcmocks.SellerAuthorizer
	limiter    *repomocks.RateLimitRepository
	cache      *mockCache
	snapshot   *catalog.Store
	service    service.ProductService
}

func setupProductTest() *productTestDeps {
	deps := &productTestDeps{
		repo:       new(repomocks.ProductRepository),
		media:      new(mockMediaClient),
		authorizer: new(svcmocks.SellerAuthorizer),
		limiter:    new(repomocks.RateLimitRepository),
		cache:      new(mockCache),
		snapshot:   catalog.NewStore(),
	}

	deps.service = service.NewProductService(deps.repo, deps.media, deps.authorizer, deps.limiter, deps.cache, deps.snapshot)

	return deps
}

func intakeRequest() *models.CreateProductRequest {
	return &models.CreateProductRequest{
		Name:        "Walnut desk organizer",
		Description: "Solid walnut, five compartments",
		Category:    "office",
		Price:       59.99,
		OfferPrice:  44.99,
	}
}

func intakeImages(names ...string) []models.ImageUpload {
	images := make([]models.ImageUpload, 0, len(names))
	for _, name := range names {
		images = append(images, models.ImageUpload{Filename: name, Data: []byte(name)})
	}

	return images
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.NewString()

	t.Run("Success - Image Order Matches Form Order", func(t *testing.T) {
		deps := setupProductTest()
		deps.authorizer.On("IsSeller", ctx, sellerID).Return(true).Once()
		deps.limiter.On("CheckIntakeRateLimit", ctx, sellerID).Return(true, 0, nil).Once()
		deps.media.On("Upload", mock.Anything, "front.jpg", mock.Anything).Return("https://cdn.example/front", nil).Once()
		deps.media.On("Upload", mock.Anything, "side.jpg", mock.Anything).Return("https://cdn.example/side", nil).Once()
		deps.media.On("Upload", mock.Anything, "back.jpg", mock.Anything).Return("https://cdn.example/back", nil).Once()
		deps.repo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
		deps.cache.On("Delete", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		product, err := deps.service.CreateProduct(ctx, sellerID, intakeRequest(), intakeImages("front.jpg", "side.jpg", "back.jpg"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example/front", "https://cdn.example/side", "https://cdn.example/back"}, product.Images)
		assert.Equal(t, sellerID, product.SellerID)

		// The new listing is immediately priceable.
		_, ok := deps.snapshot.Lookup(product.ID.String())
		assert.True(t, ok)

		deps.repo.AssertExpectations(t)
		deps.media.AssertExpectations(t)
	})

	t.Run("Failure - Non-Seller Gets Nothing Done", func(t *testing.T) {
		deps := setupProductTest()
		deps.authorizer.On("IsSeller", ctx, sellerID).Return(false).Once()

		product, err := deps.service.CreateProduct(ctx, sellerID, intakeRequest(), intakeImages("front.jpg"))

		assert.Error(t, err)
		assert.Nil(t, product)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
		assert.Equal(t, "Not authorized", appErr.Message)

		deps.limiter.AssertNotCalled(t, "CheckIntakeRateLimit", mock.Anything, mock.Anything)
		deps.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		deps.repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Empty File Set Rejected Before Upload", func(t *testing.T) {
		deps := setupProductTest()
		deps.authorizer.On("IsSeller", ctx, sellerID).Return(true).Once()
		deps.limiter.On("CheckIntakeRateLimit", ctx, sellerID).Return(true, 0, nil).Once()

		product, err := deps.service.CreateProduct(ctx, sellerID, intakeRequest(), nil)

		assert.Error(t, err)
		assert.Nil(t, product)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		assert.Equal(t, "No files uploaded", appErr.Message)

		deps.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		deps.repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - One Bad Upload Fails The Whole Intake", func(t *testing.T) {
		deps := setupProductTest()
		deps.authorizer.On("IsSeller", ctx, sellerID).Return(true).Once()
		deps.limiter.On("CheckIntakeRateLimit", ctx, sellerID).Return(true, 0, nil).Once()
		deps.media.On("Upload", mock.Anything, "front.jpg", mock.Anything).Return("https://cdn.example/front", nil).Once()
		deps.media.On("Upload", mock.Anything, "side.jpg", mock.Anything).Return("", errors.New("connection reset")).Once()
		deps.media.On("Upload", mock.Anything, "back.jpg", mock.Anything).Return("https://cdn.example/back", nil).Once()

		product, err := deps.service.CreateProduct(ctx, sellerID, intakeRequest(), intakeImages("front.jpg", "side.jpg", "back.jpg"))

		assert.Error(t, err)
		assert.Nil(t, product)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUpstreamIO, appErr.Code)

		// Persistence never runs on a partial upload.
		deps.repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		assert.Equal(t, 0, deps.snapshot.Len())
	})

	t.Run("Failure - Rate Limited Seller Is Told To Wait", func(t *testing.T) {
		deps := setupProductTest()
		deps.authorizer.On("IsSeller", ctx, sellerID).Return(true).Once()
		deps.limiter.On("CheckIntakeRateLimit", ctx, sellerID).Return(false, 42, nil).Once()

		product, err := deps.service.CreateProduct(ctx, sellerID, intakeRequest(), intakeImages("front.jpg"))

		assert.Error(t, err)
		assert.Nil(t, product)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appErr.Code)

		deps.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Persistence Error Surfaces As Database Error", func(t *testing.T) {
		deps := setupProductTest()
		deps.authorizer.On("IsSeller", ctx, sellerID).Return(true).Once()
		deps.limiter.On("CheckIntakeRateLimit", ctx, sellerID).Return(true, 0, nil).Once()
		deps.media.On("Upload", mock.Anything, "front.jpg", mock.Anything).Return("https://cdn.example/front", nil).Once()
		deps.repo.On("CreateProduct", ctx, mock.AnythingOfType("*models.Product")).Return(errors.New("insert failed")).Once()

		product, err := deps.service.CreateProduct(ctx, sellerID, intakeRequest(), intakeImages("front.jpg"))

		assert.Error(t, err)
		assert.Nil(t, product)

		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Cache Miss Falls Through To Repository", func(t *testing.T) {
		deps := setupProductTest()
		products := []models.Product{{ID: uuid.New(), Name: "Lamp"}}

		deps.cache.On("Get", ctx, "catalog:1:10", mock.Anything).Return(false, nil).Once()
		deps.repo.On("ListProducts", ctx, 1, 10).Return(products, 1, nil).Once()
		deps.cache.On("Set", ctx, "catalog:1:10", mock.Anything, mock.Anything).Return(nil).Once()

		got, total, err := deps.service.ListProducts(ctx, 1, 10)

		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, got, 1)
		deps.repo.AssertExpectations(t)
		deps.cache.AssertExpectations(t)
	})

	t.Run("Success - Broken Cache Never Fails A Read", func(t *testing.T) {
		deps := setupProductTest()
		products := []models.Product{{ID: uuid.New(), Name: "Lamp"}}

		deps.cache.On("Get", ctx, "catalog:1:10", mock.Anything).Return(false, errors.New("redis down")).Once()
		deps.repo.On("ListProducts", ctx, 1, 10).Return(products, 1, nil).Once()
		deps.cache.On("Set", ctx, "catalog:1:10", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		got, total, err := deps.service.ListProducts(ctx, 1, 10)

		assert.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, got, 1)
	})
}
