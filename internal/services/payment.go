package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	apperrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	repository "github.com/quickcart-io/quickcart/internal/repositories"
	paymentprovider "github.com/quickcart-io/quickcart/pkg/stripe"
	"github.com/stripe/stripe-go/v81"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, userID string, req *models.CreatePaymentRequest) (*models.PaymentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	repo      repository.PaymentRepository
	orderRepo repository.OrderRepository
	client    paymentprovider.Client
	currency  string
}

func NewPaymentService(repo repository.PaymentRepository, orderRepo repository.OrderRepository, client paymentprovider.Client, currency string) PaymentService {
	return &paymentService{repo: repo, orderRepo: orderRepo, client: client, currency: currency}
}

func (s *paymentService) CreatePayment(ctx context.Context, userID string, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	if order.UserID != userID {
		return nil, apperrors.ForbiddenError("Order belongs to another user")
	}

	if order.PaymentMethod == models.PaymentMethodCOD {
		return nil, apperrors.BadRequestError("Cash-on-delivery orders are settled offline")
	}

	// Provider amounts are in the smallest currency unit.
	amount := int64(math.Round(order.Amount * 100))

	intent, err := s.client.CreatePaymentIntent(amount, s.currency, fmt.Sprintf("order %s", order.ID))
	if err != nil {
		return nil, apperrors.UpstreamIOError("Failed to create payment intent").WithError(err)
	}

	payment := &models.Payment{
		ID:              uuid.New(),
		OrderID:         order.ID,
		UserID:          userID,
		Amount:          order.Amount,
		Currency:        s.currency,
		Status:          models.PaymentStatusPending,
		PaymentIntentID: intent.ID,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, apperrors.DatabaseError("Failed to record payment").WithError(err)
	}

	return &models.PaymentResponse{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {

	logger := middleware.LoggerFromContext(ctx)

	event, err := s.client.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return apperrors.UnauthorizedError("Invalid webhook signature").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":

		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return apperrors.BadRequestError("Malformed webhook payload").WithError(err)
		}

		status := models.PaymentStatusSucceeded
		if event.Type == "payment_intent.payment_failed" {
			status = models.PaymentStatusFailed
		}

		if err := s.repo.UpdateStatusByIntentID(ctx, intent.ID, status); err != nil {
			return apperrors.DatabaseError("Failed to update payment status").WithError(err)
		}

	default:
		logger.Info("Ignoring webhook event", slog.String("type", string(event.Type)))
	}

	return nil
}
