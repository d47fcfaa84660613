package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	apperrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	service "github.com/quickcart-io/quickcart/internal/services"
	"github.com/quickcart-io/quickcart/internal/utils"
	"github.com/quickcart-io/quickcart/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CheckoutRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, apperrors.BadRequestError(err.Error()))
			return
		}

		if err := utils.ValidateStruct(h.validator, req); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				response.ValidationError(w, validationErrs)
				return
			}

			response.Error(w, apperrors.ValidationError(err.Error()))
			return
		}

		order, err := h.orderService.Checkout(r.Context(), principal.ID, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed",
			slog.String("orderId", order.ID.String()),
			slog.Float64("amount", order.Amount))
		response.Success(w, http.StatusCreated, "Order placed successfully", order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid order id"))
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		if order.UserID != principal.ID {
			response.Error(w, apperrors.ForbiddenError("Order belongs to another user"))
			return
		}

		response.Success(w, http.StatusOK, "Order fetched successfully", order)
	}
}

// SellerOrders lists every order containing at least one of the caller's
// products. Non-sellers are rejected by the service, never served an empty
// list.
func (h *OrderHandler) SellerOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		size, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || size < 1 || size > 100 {
			size = 10
		}

		orders, total, err := h.orderService.ListSellerOrders(r.Context(), principal.ID, page, size)
		if err != nil {
			logger.Warn("Seller order view rejected", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Orders fetched successfully", models.SellerOrdersResponse{
			Orders: orders,
			Total:  total,
			Page:   page,
			Size:   size,
		})
	}
}
