package handlers

import (
	"errors"
	"io"
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

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

func (h *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.CreatePaymentRequest
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

		payment, err := h.paymentService.CreatePayment(r.Context(), principal.ID, &req)
		if err != nil {
			logger.Error("Failed to initiate payment",
				slog.String("orderId", req.OrderID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Payment initiated",
			slog.String("paymentId", payment.Payment.ID.String()),
			slog.String("orderId", req.OrderID.String()))
		response.Success(w, http.StatusOK, "Payment initiated", payment)
	}
}

// Webhook receives provider callbacks. The raw body must be read before any
// parsing; signature verification runs over the exact bytes sent.
func (h *PaymentHandler) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Failed to read request body").WithError(err))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			response.Error(w, apperrors.BadRequestError("Stripe-Signature header is required"))
			return
		}

		if err := h.paymentService.HandleWebhook(r.Context(), payload, signature); err != nil {
			logger.Error("Webhook processing failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Webhook processed", map[string]bool{"received": true})
	}
}
