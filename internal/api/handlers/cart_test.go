package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/api/handlers"
	appErrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	"github.com/quickcart-io/quickcart/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buyerPrincipal() *models.Principal {
	return &models.Principal{ID: uuid.NewString()}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewBuffer(data)
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		principal := buyerPrincipal()
		req := authenticate(httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil), principal)

		mockService.On("GetCart", mock.Anything, principal.ID).
			Return(&models.Cart{ID: uuid.New(), UserID: principal.ID, Items: map[string]int{}}, nil).Once()

		recorder := httptest.NewRecorder()
		handler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - No Principal", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		req := authenticate(httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil), nil)

		recorder := httptest.NewRecorder()
		handler.GetCart()(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestAddItemHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		principal := buyerPrincipal()
		productID := uuid.New()

		body := jsonBody(t, models.AddItemRequest{ProductID: productID})
		req := authenticate(httptest.NewRequest(http.MethodPost, "/api/v1/carts/items", body), principal)

		mockService.On("AddItem", mock.Anything, principal.ID, productID).
			Return(&models.Cart{ID: uuid.New(), Items: map[string]int{productID.String(): 1}}, nil).Once()

		recorder := httptest.NewRecorder()
		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Empty Body", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		req := authenticate(httptest.NewRequest(http.MethodPost, "/api/v1/carts/items", bytes.NewBuffer(nil)), buyerPrincipal())

		recorder := httptest.NewRecorder()
		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Missing Product ID Fails Validation", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		body := jsonBody(t, map[string]string{"unexpected": "field"})
		req := authenticate(httptest.NewRequest(http.MethodPost, "/api/v1/carts/items", body), buyerPrincipal())

		recorder := httptest.NewRecorder()
		handler.AddItem()(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		resp := decodeAPIResponse(t, recorder)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		mockService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	t.Run("Success - Zero Removes", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		principal := buyerPrincipal()
		productID := uuid.New()

		body := jsonBody(t, models.UpdateQuantityRequest{ProductID: productID, Quantity: 0})
		req := authenticate(httptest.NewRequest(http.MethodPut, "/api/v1/carts/items", body), principal)

		mockService.On("UpdateQuantity", mock.Anything, principal.ID, productID, 0).
			Return(&models.Cart{ID: uuid.New(), Items: map[string]int{}}, nil).Once()

		recorder := httptest.NewRecorder()
		handler.UpdateQuantity()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})
}

func TestSummaryHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockService)

		principal := buyerPrincipal()
		req := authenticate(httptest.NewRequest(http.MethodGet, "/api/v1/carts/summary", nil), principal)

		mockService.On("Summary", mock.Anything, principal.ID).
			Return(&models.CartSummary{Count: 3, Amount: 59.98}, nil).Once()

		recorder := httptest.NewRecorder()
		handler.Summary()(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)

		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)

		var summary models.CartSummary
		require.NoError(t, json.Unmarshal(data, &summary))
		assert.Equal(t, 3, summary.Count)
		assert.Equal(t, 59.98, summary.Amount)
		mockService.AssertExpectations(t)
	})
}
