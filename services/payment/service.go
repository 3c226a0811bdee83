package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"serenity/config"
	"serenity/database/repository"
	bookingRepo "serenity/database/repository/booking"
	paymentRepo "serenity/database/repository/payment"
	"serenity/models"
	"serenity/services/notification"
	"serenity/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// DefaultPaymentService is the Stripe-backed implementation of PaymentService.
type DefaultPaymentService struct {
	Payments paymentRepo.PaymentRepository
	Bookings bookingRepo.BookingRepository
	Notifier notification.NotificationService

	Currency       string
	DepositPercent int
	WebhookSecret  string
}

func NewDefaultPaymentService(payments paymentRepo.PaymentRepository, bookings bookingRepo.BookingRepository, notifier notification.NotificationService) *DefaultPaymentService {
	return &DefaultPaymentService{
		Payments:       payments,
		Bookings:       bookings,
		Notifier:       notifier,
		Currency:       config.AppConfig.Currency,
		DepositPercent: config.AppConfig.DepositPercent,
		WebhookSecret:  config.AppConfig.StripeWebhookSecret,
	}
}

func (s *DefaultPaymentService) EnsureIntent(ctx context.Context, booking *models.Booking, kind models.PaymentKind) (*models.Payment, string, error) {
	existing, err := s.Payments.GetByBookingID(ctx, booking.ID)
	if err == nil {
		pi, err := paymentintent.Get(existing.IntentID, nil)
		if err != nil {
			return nil, "", fmt.Errorf("fetch intent %s: %w", existing.IntentID, err)
		}
		return existing, pi.ClientSecret, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	amount := booking.AmountMinor
	if kind == models.PaymentKindDeposit {
		amount = booking.AmountMinor * int64(s.DepositPercent) / 100
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", booking.ID)
	params.AddMetadata("booking_ref", booking.ShortRef())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, "", fmt.Errorf("create intent: %w", err)
	}

	record := &models.Payment{
		BookingID:   booking.ID,
		IntentID:    pi.ID,
		AmountMinor: amount,
		Currency:    s.Currency,
		Kind:        kind,
		Status:      models.PaymentCreated,
	}
	if err := s.Payments.Create(ctx, record); err != nil {
		return nil, "", fmt.Errorf("record payment: %w", err)
	}
	utils.GetLogger().Info("payment intent created",
		zap.String("bookingID", booking.ID),
		zap.String("intentID", pi.ID),
		zap.Int64("amountMinor", amount),
		zap.String("kind", string(kind)))
	return record, pi.ClientSecret, nil
}

// HandleWebhook is the authoritative confirmation path. Client-side success
// redirects are advisory only; bookings flip to CONFIRMED here and nowhere
// else.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.WebhookSecret)
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	switch string(event.Type) {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("decode payment intent: %w", err)
		}
		return s.capture(ctx, &pi, event.ID)

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("decode payment intent: %w", err)
		}
		if err := s.Payments.MarkFailed(ctx, pi.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		utils.GetLogger().Info("payment failed", zap.String("intentID", pi.ID))
		return nil

	default:
		// Unhandled event types are acknowledged so the gateway stops retrying.
		return nil
	}
}

func (s *DefaultPaymentService) capture(ctx context.Context, pi *stripe.PaymentIntent, eventID string) error {
	providerPaymentID := pi.ID
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		providerPaymentID = pi.LatestCharge.ID
	}

	booking, err := s.Payments.CapturePayment(ctx, pi.ID, providerPaymentID, eventID, "stripe")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Not ours (e.g. another environment sharing the account).
			utils.GetLogger().Warn("webhook for unknown intent", zap.String("intentID", pi.ID))
			return nil
		}
		return err
	}
	if booking == nil {
		// Duplicate delivery; already captured.
		return nil
	}

	utils.GetLogger().Info("booking confirmed",
		zap.String("bookingID", booking.ID),
		zap.String("intentID", pi.ID))
	if err := s.Notifier.BookingConfirmed(ctx, booking); err != nil {
		utils.GetLogger().Error("failed to queue confirmation e-mail",
			zap.Error(err), zap.String("bookingID", booking.ID))
	}
	return nil
}

func (s *DefaultPaymentService) Receipt(ctx context.Context, accessToken string) (*models.Receipt, error) {
	booking, err := s.Bookings.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus != models.BookingPaymentPaid {
		return nil, repository.ErrNotFound
	}

	receipt := &models.Receipt{
		BookingRef:  booking.ShortRef(),
		GuestName:   booking.GuestName,
		ServiceName: booking.ServiceName,
		WorkerName:  booking.WorkerName,
		BranchName:  booking.BranchName,
		BookingDate: booking.BookingDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		AmountMinor: booking.AmountMinor,
		Currency:    s.Currency,
	}
	if pay, err := s.Payments.GetByBookingID(ctx, booking.ID); err == nil {
		receipt.AmountMinor = pay.AmountMinor
		receipt.Currency = pay.Currency
		receipt.PaidAt = pay.PaidAt
		receipt.IntentID = pay.IntentID
	}
	return receipt, nil
}
