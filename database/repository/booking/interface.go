package bookingRepo

import (
	"context"
	"errors"
	"time"

	"serenity/models"
)

// Slot contention errors surfaced by AcquireLock. The partial unique
// indexes uq_confirmed_booking_slot and uq_active_slot_lock back these
// checks at the database level.
var (
	// ErrSlotTaken means a CONFIRMED booking already holds the slot.
	ErrSlotTaken = errors.New("slot already confirmed by another booking")
	// ErrSlotHeld means an active (unexpired, unreleased) lock holds the slot.
	ErrSlotHeld = errors.New("slot is held by another in-flight booking")
)

// BookingRepository defines data access for bookings, their audit trail
// and dashboard metrics. Status never changes through a plain update;
// every transition appends a booking_status_logs row in the same
// transaction.
type BookingRepository interface {
	// Create inserts a new booking (status and payment_status as set on the model).
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking with joined display names.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetByAccessToken retrieves a booking by its emailed access token.
	GetByAccessToken(ctx context.Context, token string) (*models.Booking, error)
	// ListByPhone retrieves a guest's bookings, newest first.
	ListByPhone(ctx context.Context, phone string) ([]models.Booking, error)
	// List retrieves bookings for the dashboard, filtered and newest first.
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)

	// OccupiedWindows returns the time windows held on a worker's day:
	// CONFIRMED bookings plus active slot locks.
	OccupiedWindows(ctx context.Context, workerID string, date time.Time, now time.Time) ([]models.Window, error)
	// HasConfirmedAt reports whether a CONFIRMED booking exists at the slot.
	HasConfirmedAt(ctx context.Context, workerID string, date time.Time, start models.TimeOfDay) (bool, error)
	// ConfirmedCount counts a worker's CONFIRMED bookings on a date.
	ConfirmedCount(ctx context.Context, workerID string, date time.Time) (int, error)

	// Complete marks a confirmed booking as delivered.
	Complete(ctx context.Context, id, changedBy string) (*models.Booking, error)
	// Cancel cancels a booking with a reason.
	Cancel(ctx context.Context, id, changedBy, reason string) (*models.Booking, error)
	// Reassign moves a confirmed booking to another worker after a conflict check.
	Reassign(ctx context.Context, id, newWorkerID, changedBy string) (*models.Booking, error)
	// ExpireStale expires PENDING_PAYMENT bookings created before the cutoff
	// whose slot lock is gone, released or expired. Returns how many expired.
	ExpireStale(ctx context.Context, cutoff, now time.Time) (int, error)

	// StatusLogs retrieves the audit trail, oldest first.
	StatusLogs(ctx context.Context, bookingID string) ([]models.BookingStatusLog, error)

	// Overview computes the staff dashboard snapshot.
	Overview(ctx context.Context, now time.Time) (*models.DashboardOverview, error)
	// RevenueByDay aggregates settled revenue per day over [from, to].
	RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error)
}

// SlotLockRepository defines the atomic TTL slot holds acquired before payment.
type SlotLockRepository interface {
	// AcquireLock atomically creates a lock for worker+date+start. Inside one
	// transaction it row-locks and rejects on a CONFIRMED booking (ErrSlotTaken)
	// or an active lock (ErrSlotHeld), then inserts the new lock.
	AcquireLock(ctx context.Context, lock *models.SlotLock) error
	// GetLock retrieves a lock by ID.
	GetLock(ctx context.Context, id string) (*models.SlotLock, error)
	// ReleaseLock marks a lock released (guest went back, or flow abandoned).
	ReleaseLock(ctx context.Context, id string) error
	// ReleaseExpired releases every unreleased lock whose TTL has elapsed.
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)
}
