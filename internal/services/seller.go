package service

import (
	"context"
	"log/slog"

	"github.com/quickcart-io/quickcart/internal/api/middleware"
	repository "github.com/quickcart-io/quickcart/internal/repositories"
)

// SellerAuthorizer answers whether a principal holds seller privileges.
type SellerAuthorizer interface {
	IsSeller(ctx context.Context, userID string) bool
}

type sellerAuthorizer struct {
	repo repository.SellerRepository
}

func NewSellerAuthorizer(repo repository.SellerRepository) SellerAuthorizer {
	return &sellerAuthorizer{repo: repo}
}

// IsSeller fails closed: an absent identifier or a failed lookup both answer
// false. No side effects either way.
func (a *sellerAuthorizer) IsSeller(ctx context.Context, userID string) bool {

	if userID == "" {
		return false
	}

	exists, err := a.repo.SellerExists(ctx, userID)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Seller lookup failed, treating as not authorized",
			slog.String("userId", userID), slog.String("error", err.Error()))
		return false
	}

	return exists
}
