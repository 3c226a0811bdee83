package payment

import (
	"context"

	"serenity/models"
)

// PaymentService owns the gateway integration: creating intents for pending
// bookings, confirming them from signed webhooks and producing receipts.
type PaymentService interface {
	// EnsureIntent returns the booking's payment and gateway client secret,
	// creating the intent on first call. kind picks deposit or full amount.
	EnsureIntent(ctx context.Context, booking *models.Booking, kind models.PaymentKind) (*models.Payment, string, error)
	// HandleWebhook verifies the gateway signature and applies the event.
	// Confirmation is idempotent; replayed events are acknowledged and dropped.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	// Receipt builds the guest-facing receipt for a settled booking,
	// addressed by the booking's access token.
	Receipt(ctx context.Context, accessToken string) (*models.Receipt, error)
}
