package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	apperrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	service "github.com/quickcart-io/quickcart/internal/services"
	"github.com/quickcart-io/quickcart/internal/utils"
	"github.com/quickcart-io/quickcart/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), principal.ID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Cart fetched successfully", cart)
	}
}

// AddItem bumps the product's quantity by one. The response carries the
// written-through cart, which is the authoritative state clients reconcile to.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddItemRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, apperrors.BadRequestError(err.Error()))
			return
		}

		if !h.validate(w, req) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), principal.ID, req.ProductID)
		if err != nil {
			logger.Error("Failed to add cart item",
				slog.String("productId", req.ProductID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Item added to cart", cart)
	}
}

// UpdateQuantity sets an exact quantity; zero removes the item.
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.UpdateQuantityRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, apperrors.BadRequestError(err.Error()))
			return
		}

		if !h.validate(w, req) {
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), principal.ID, req.ProductID, req.Quantity)
		if err != nil {
			logger.Error("Failed to update cart quantity",
				slog.String("productId", req.ProductID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Cart updated successfully", cart)
	}
}

func (h *CartHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		summary, err := h.cartService.Summary(r.Context(), principal.ID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Cart summary computed", summary)
	}
}

func (h *CartHandler) validate(w http.ResponseWriter, req any) bool {

	if err := utils.ValidateStruct(h.validator, req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, apperrors.ValidationError(err.Error()))
		return false
	}

	return true
}
