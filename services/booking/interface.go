package booking

import (
	"context"

	"serenity/models"
)

// BookingFlowService drives the multi-step guest booking flow. Every method
// except the sessionless helpers takes the opaque session ID issued by
// StartSession; re-entering an earlier step discards everything after it.
type BookingFlowService interface {
	// StartSession opens a fresh booking session.
	StartSession(ctx context.Context) (*models.BookingSession, error)
	// GetSession retrieves the session state for step navigation.
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)

	// SelectBranch records the branch choice (step 1).
	SelectBranch(ctx context.Context, sessionID, branchID string) (*models.BookingSession, error)
	// SelectService records the service choice (step 2).
	SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error)
	// SelectWorker records a worker ID or models.AnyWorker (step 3).
	SelectWorker(ctx context.Context, sessionID, workerID string) (*models.BookingSession, error)
	// SelectDate records the booking date as "2006-01-02" (step 4).
	SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error)
	// SessionSlots lists the open slots for the session's current choices.
	SessionSlots(ctx context.Context, sessionID string) ([]models.AvailableSlot, error)
	// SelectSlot records the start time as "HH:MM" (step 5).
	SelectSlot(ctx context.Context, sessionID, start string) (*models.BookingSession, error)
	// SetGuestInfo records contact details and resolves the guest identity
	// by normalised phone (step 6).
	SetGuestInfo(ctx context.Context, sessionID, name, phone, email string) (*models.BookingSession, error)

	// Review locks the slot, creates the pending booking and returns the
	// payment summary (step 7). Idempotent while the lock is still active.
	Review(ctx context.Context, sessionID, notes string, kind models.PaymentKind) (*models.ReviewSummary, error)
	// ReleaseHold releases the slot lock and abandons the pending booking
	// when the guest steps back from review.
	ReleaseHold(ctx context.Context, sessionID string) error
	// Confirmation returns the session's booking so the client can observe
	// the webhook-driven confirmation. The session is discarded once the
	// booking is confirmed.
	Confirmation(ctx context.Context, sessionID string) (*models.Booking, error)

	// SlotsFor lists open slots without a session, for availability widgets.
	// workerID may be models.AnyWorker.
	SlotsFor(ctx context.Context, branchID, serviceID, workerID, date string) ([]models.AvailableSlot, error)
	// WorkersFor lists the workers free to take a specific slot.
	WorkersFor(ctx context.Context, branchID, serviceID, date, start string) ([]models.Worker, error)

	// BookingsByPhone lists a guest's bookings by raw phone number.
	BookingsByPhone(ctx context.Context, rawPhone string) ([]models.Booking, error)
	// BookingByToken retrieves one booking by its emailed access token.
	BookingByToken(ctx context.Context, token string) (*models.Booking, error)
}

// PaymentIntents is the slice of the payment service the booking flow needs:
// creating (or re-fetching) the gateway intent for a pending booking.
type PaymentIntents interface {
	EnsureIntent(ctx context.Context, booking *models.Booking, kind models.PaymentKind) (*models.Payment, string, error)
}
