package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	repomocks "github.com/quickcart-io/quickcart/internal/repositories/mocks"
	service "github.com/quickcart-io/quickcart/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestIsSeller(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Identifier Never Reaches The Repository", func(t *testing.T) {
		mockRepo := new(repomocks.SellerRepository)
		authorizer := service.NewSellerAuthorizer(mockRepo)

		assert.False(t, authorizer.IsSeller(ctx, ""))
		mockRepo.AssertNotCalled(t, "SellerExists", mock.Anything, mock.Anything)
	})

	t.Run("Registered Seller Is Authorized", func(t *testing.T) {
		mockRepo := new(repomocks.SellerRepository)
		authorizer := service.NewSellerAuthorizer(mockRepo)
		userID := uuid.NewString()
		mockRepo.On("SellerExists", ctx, userID).Return(true, nil).Once()

		assert.True(t, authorizer.IsSeller(ctx, userID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown User Is Not Authorized", func(t *testing.T) {
		mockRepo := new(repomocks.SellerRepository)
		authorizer := service.NewSellerAuthorizer(mockRepo)
		userID := uuid.NewString()
		mockRepo.On("SellerExists", ctx, userID).Return(false, nil).Once()

		assert.False(t, authorizer.IsSeller(ctx, userID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Lookup Failure Fails Closed", func(t *testing.T) {
		mockRepo := new(repomocks.SellerRepository)
		authorizer := service.NewSellerAuthorizer(mockRepo)
		userID := uuid.NewString()
		mockRepo.On("SellerExists", ctx, userID).Return(false, errors.New("connection refused")).Once()

		assert.False(t, authorizer.IsSeller(ctx, userID))
		mockRepo.AssertExpectations(t)
	})
}
