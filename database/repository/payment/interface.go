package paymentRepo

import (
	"context"

	"serenity/models"
)

// PaymentRepository defines data access for gateway payment records and
// the webhook-driven confirmation transaction.
type PaymentRepository interface {
	// Create inserts a payment record for a pending booking.
	Create(ctx context.Context, payment *models.Payment) error
	// GetByBookingID retrieves a booking's payment, if any.
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	// MarkFailed records a failed gateway attempt.
	MarkFailed(ctx context.Context, intentID string) error

	// CapturePayment is the authoritative, idempotent confirmation path,
	// driven by the signed webhook. Inside one transaction it:
	//   1. skips if the provider payment ID was already captured,
	//   2. row-locks the booking and skips if already CONFIRMED,
	//   3. flips the booking to CONFIRMED/PAID with the captured amount,
	//   4. marks the payment CAPTURED with the webhook event ID,
	//   5. appends the audit row.
	// Returns the confirmed booking, or (nil, nil) when the event was a
	// duplicate and nothing changed.
	CapturePayment(ctx context.Context, intentID, providerPaymentID, webhookEventID, source string) (*models.Booking, error)
}
