package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"

	"github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/metrics"
	"github.com/raadistore/storefront-platform/internal/models"
	repository "github.com/raadistore/storefront-platform/internal/repositories"
	"github.com/raadistore/storefront-platform/pkg/sendgrid"
	"github.com/raadistore/storefront-platform/pkg/stripe"
	"github.com/google/uuid"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, claims *models.Claims, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	repo         repository.PaymentRepository
	orderRepo    repository.OrderRepository
	stripeClient stripe.Client
	email        sendgrid.EmailService
	currency     string
}

func NewPaymentService(repo repository.PaymentRepository, orderRepo repository.OrderRepository, stripeClient stripe.Client, email sendgrid.EmailService, currency string) PaymentService {
	return &paymentService{
		repo:         repo,
		orderRepo:    orderRepo,
		stripeClient: stripeClient,
		email:        email,
		currency:     currency,
	}
}

// InitiatePayment registers a gateway charge for an order and records a
// pending payment row keyed by the gateway transaction id.
func (s *paymentService) InitiatePayment(ctx context.Context, claims *models.Claims, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Order not found")
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != claims.UserID && !claims.IsAdmin() {
		return nil, errors.ForbiddenError("You do not have access to this order")
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, errors.ConflictError("Order has been cancelled")
	}

	// A failed attempt leaves the order payable, so the customer can retry
	// with a fresh intent.
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, errors.ConflictError("Order is already paid")
	}

	if math.Abs(req.Amount-order.TotalAmount) >= 0.01 {
		return nil, errors.BadRequestError("Payment amount does not match the order total").
			WithDetail(fmt.Sprintf("order total is %.2f", order.TotalAmount))
	}

	// Gateway amounts are in the currency's smallest unit.
	intent, err := s.stripeClient.CreatePaymentIntent(
		int64(math.Round(order.TotalAmount*100)), s.currency, "Order "+order.ID.String())
	if err != nil {
		return nil, errors.UpstreamError("Failed to create payment intent").WithError(err)
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		TransactionID: intent.ID,
		Amount:        order.TotalAmount,
		Status:        models.TransactionStatusPending,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, errors.DatabaseError("Failed to record payment").WithError(err)
	}

	return &models.InitiatePaymentResponse{
		TransactionID: payment.TransactionID,
		ClientSecret:  intent.ClientSecret,
	}, nil
}

// ProcessWebhook is the idempotent gateway callback entry point. The status
// transition is conditional on the payment still being pending, so duplicate
// deliveries of the same event are no-op successes.
func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return errors.UnauthorizedError("Webhook signature verification failed").WithError(err)
	}

	metrics.WebhookEvent(string(event.Type))

	switch event.Type {
	case "payment_intent.succeeded":
		transactionID, err := transactionIDFromEvent(event)
		if err != nil {
			return err
		}

		return s.applySuccess(ctx, transactionID, payload)

	case "payment_intent.payment_failed":
		transactionID, err := transactionIDFromEvent(event)
		if err != nil {
			return err
		}

		return s.applyFailure(ctx, transactionID, payload)
	}

	// Unhandled event types are acknowledged so the gateway stops retrying.
	return nil
}

func (s *paymentService) applySuccess(ctx context.Context, transactionID string, payload []byte) error {

	applied, err := s.repo.MarkStatus(ctx, transactionID, models.TransactionStatusSuccess, payload)
	if err != nil {
		return errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	if !applied {
		slog.Info("webhook replay ignored", "transactionId", transactionID)

		return nil
	}

	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Payment not found")
		}

		return errors.DatabaseError("Failed to fetch payment").WithError(err)
	}

	confirmed, err := s.orderRepo.MarkPaid(ctx, payment.OrderID, transactionID)
	if err != nil {
		return errors.DatabaseError("Failed to confirm order").WithError(err)
	}

	// A success landing on an order that is no longer confirmable, such as
	// one the customer cancelled first, is acknowledged without resurrecting
	// the order.
	if !confirmed {
		slog.Warn("payment succeeded but order was not confirmable",
			"orderId", payment.OrderID, "transactionId", transactionID)

		return nil
	}

	s.sendConfirmationEmail(ctx, payment.OrderID)

	return nil
}

func (s *paymentService) applyFailure(ctx context.Context, transactionID string, payload []byte) error {

	applied, err := s.repo.MarkStatus(ctx, transactionID, models.TransactionStatusFailed, payload)
	if err != nil {
		return errors.DatabaseError("Failed to update payment status").WithError(err)
	}

	if !applied {
		slog.Info("webhook replay ignored", "transactionId", transactionID)

		return nil
	}

	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Payment not found")
		}

		return errors.DatabaseError("Failed to fetch payment").WithError(err)
	}

	// The order stays pending so the customer can retry with a new payment.
	if err := s.orderRepo.MarkPaymentFailed(ctx, payment.OrderID); err != nil {
		return errors.DatabaseError("Failed to record payment failure").WithError(err)
	}

	return nil
}

// sendConfirmationEmail is best-effort: a mail provider outage must never
// fail an already-confirmed payment.
func (s *paymentService) sendConfirmationEmail(ctx context.Context, orderID uuid.UUID) {

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		slog.Warn("failed to load order for confirmation email", "error", err, "orderId", orderID)

		return
	}

	subject := fmt.Sprintf("Order %s confirmed", order.ID)
	content := fmt.Sprintf("Hi %s,\n\nYour payment of %.2f was received and your order is confirmed.\n\nThank you for shopping with us.",
		order.CustomerName, order.TotalAmount)

	if err := s.email.Send(ctx, order.CustomerEmail, subject, content, ""); err != nil {
		slog.Warn("failed to send confirmation email", "error", err, "orderId", orderID)
	}
}

func transactionIDFromEvent(event stripe.Event) (string, error) {

	idValue, ok := event.Data.Object["id"]
	if !ok {
		return "", errors.BadRequestError("Payment intent ID not found in webhook payload")
	}

	transactionID, ok := idValue.(string)
	if !ok || transactionID == "" {
		return "", errors.BadRequestError("Payment intent ID is malformed in webhook payload")
	}

	return transactionID, nil
}
