package models

import "time"

// PaymentStatus tracks the gateway payment lifecycle. Created when the
// PaymentIntent is created (before payment), captured by the webhook.
type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "CREATED"
	PaymentCaptured PaymentStatus = "CAPTURED"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// PaymentKind distinguishes a 10% deposit from a full payment.
type PaymentKind string

const (
	PaymentKindDeposit PaymentKind = "deposit"
	PaymentKindFull    PaymentKind = "full"
)

// Payment is the gateway record, one per booking. IntentID is unique;
// ProviderPaymentID and WebhookEventID are unique once populated
// (partial indexes, NULL-safe).
type Payment struct {
	ID                string        `json:"id"`
	BookingID         string        `json:"bookingId"`
	IntentID          string        `json:"intentId"`
	ProviderPaymentID string        `json:"providerPaymentId,omitempty"`
	AmountMinor       int64         `json:"amountMinor"`
	Currency          string        `json:"currency"`
	Kind              PaymentKind   `json:"kind"`
	Status            PaymentStatus `json:"status"`
	WebhookEventID    string        `json:"-"`
	PaidAt            *time.Time    `json:"paidAt,omitempty"`
	ConfirmedAt       *time.Time    `json:"confirmedAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// Receipt is the guest-facing payment summary for a confirmed booking.
type Receipt struct {
	BookingRef  string     `json:"bookingRef"`
	GuestName   string     `json:"guestName"`
	ServiceName string     `json:"serviceName"`
	WorkerName  string     `json:"workerName"`
	BranchName  string     `json:"branchName"`
	BookingDate time.Time  `json:"bookingDate"`
	StartTime   TimeOfDay  `json:"startTime"`
	EndTime     TimeOfDay  `json:"endTime"`
	AmountMinor int64      `json:"amountMinor"`
	Currency    string     `json:"currency"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	IntentID    string     `json:"intentId,omitempty"`
}
