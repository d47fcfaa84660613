package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	"github.com/quickcart-io/quickcart/internal/cache"
	"github.com/quickcart-io/quickcart/internal/catalog"
	"github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/metrics"
	"github.com/quickcart-io/quickcart/internal/models"
	repository "github.com/quickcart-io/quickcart/internal/repositories"
	"github.com/quickcart-io/quickcart/pkg/cloudinary"
)

const (
	catalogCacheKeyFormat = "catalog:%d:%d"
	catalogCacheTTL       = 5 * time.Minute
	defaultPageSize       = 10
)

type ProductService interface {
	CreateProduct(ctx context.Context, sellerID string, req *models.CreateProductRequest, images []models.ImageUpload) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]models.Product, int, error)
}

type productService struct {
	repo       repository.ProductRepository
	media      cloudinary.Client
	authorizer SellerAuthorizer
	limiter    repository.RateLimitRepository
	cache      cache.Cache
	snapshot   *catalog.Store
	sanitizer  *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, media cloudinary.Client, authorizer SellerAuthorizer, limiter repository.RateLimitRepository, cacheStore cache.Cache, snapshot *catalog.Store) ProductService {
	return &productService{
		repo:       repo,
		media:      media,
		authorizer: authorizer,
		limiter:    limiter,
		cache:      cacheStore,
		snapshot:   snapshot,
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

// CreateProduct runs the seller intake: authorize, upload every image, then
// persist. Uploads fan out concurrently and the persistence step waits for
// all of them; results are collected positionally so the stored image
// sequence preserves the input file order.
func (s *productService) CreateProduct(ctx context.Context, sellerID string, req *models.CreateProductRequest, images []models.ImageUpload) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)

	if !s.authorizer.IsSeller(ctx, sellerID) {
		return nil, errors.UnauthorizedError("Not authorized")
	}

	allowed, retryAfter, err := s.limiter.CheckIntakeRateLimit(ctx, sellerID)
	if err != nil {
		return nil, errors.UpstreamIOError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, errors.TooManyRequestsError("Too many listings, try again later").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
	}

	if len(images) == 0 {
		return nil, errors.ValidationError("No files uploaded")
	}

	urls := make([]string, len(images))
	uploadErrs := make([]error, len(images))

	var wg sync.WaitGroup

	for i := range images {
		wg.Add(1)

		go func(i int, img models.ImageUpload) {
			defer wg.Done()
			urls[i], uploadErrs[i] = s.media.Upload(ctx, img.Filename, img.Data)
		}(i, images[i])
	}

	wg.Wait()

	// All-or-nothing join: one failed upload fails the intake and persistence
	// is never attempted. Uploads that did succeed are not rolled back; their
	// URLs are logged so a garbage-collection sweep can reclaim them.
	var firstErr error
	var orphaned []string

	for i, uploadErr := range uploadErrs {
		if uploadErr != nil {
			metrics.RecordUpload("failure")

			if firstErr == nil {
				firstErr = uploadErr
			}
		} else {
			metrics.RecordUpload("success")

			if urls[i] != "" {
				orphaned = append(orphaned, urls[i])
			}
		}
	}

	if firstErr != nil {
		if len(orphaned) > 0 {
			logger.Warn("Intake failed after partial upload, media left orphaned",
				slog.Int("orphaned", len(orphaned)), slog.Any("urls", orphaned))
		}
		return nil, errors.UpstreamIOError("Image upload failed").WithError(firstErr)
	}

	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Name:        req.Name,
		Description: s.sanitizer.Sanitize(req.Description),
		Category:    req.Category,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Images:      urls,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	s.snapshot.Upsert(*product)

	// Drop the default catalog page; deeper pages age out with the TTL.
	if err := s.cache.Delete(ctx, fmt.Sprintf(catalogCacheKeyFormat, 1, defaultPageSize)); err != nil {
		logger.Warn("Failed to invalidate catalog cache", slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	return product, nil
}

type cachedCatalogPage struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}

func (s *productService) ListProducts(ctx context.Context, page, pageSize int) ([]models.Product, int, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := fmt.Sprintf(catalogCacheKeyFormat, page, pageSize)

	var cached cachedCatalogPage

	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		// A broken cache never fails a read, the database still answers.
		logger.Warn("Catalog cache read failed", slog.String("error", err.Error()))
	}

	if hit {
		return cached.Products, cached.Total, nil
	}

	products, total, err := s.repo.ListProducts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	if err := s.cache.Set(ctx, key, cachedCatalogPage{Products: products, Total: total}, catalogCacheTTL); err != nil {
		logger.Warn("Catalog cache write failed", slog.String("error", err.Error()))
	}

	return products, total, nil
}
