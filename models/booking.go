package models

import (
	"strings"
	"time"
)

// BookingStatus is the booking state machine. Transitions happen only
// through explicit repository operations, each appending a status log row.
type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingConfirmed      BookingStatus = "CONFIRMED"
	BookingCompleted      BookingStatus = "COMPLETED"
	BookingCancelled      BookingStatus = "CANCELLED"
	BookingExpired        BookingStatus = "EXPIRED"
)

// BookingPaymentStatus tracks how the booking was settled.
type BookingPaymentStatus string

const (
	BookingPaymentPending BookingPaymentStatus = "PENDING"
	BookingPaymentPaid    BookingPaymentStatus = "PAID"
	BookingPaymentWaived  BookingPaymentStatus = "WAIVED"
	BookingPaymentFailed  BookingPaymentStatus = "FAILED"
)

// SlotLock is an atomic, TTL-based hold on a worker slot acquired before
// payment. It prevents two guests from booking the same slot while one of
// them is paying. At most one unreleased lock may exist per
// worker+date+start (partial unique index).
type SlotLock struct {
	ID          string    `json:"id"`
	WorkerID    string    `json:"workerId"`
	BranchID    string    `json:"branchId"`
	BookingDate time.Time `json:"bookingDate"`
	StartTime   TimeOfDay `json:"startTime"`
	// EndTime includes the hidden service buffer.
	EndTime    TimeOfDay `json:"endTime"`
	SessionKey string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Released   bool      `json:"released"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsActive reports whether the lock still holds the slot.
func (l *SlotLock) IsActive(now time.Time) bool {
	return !l.Released && now.Before(l.ExpiresAt)
}

// Booking is the core record, created when a guest completes the review
// step. At most one CONFIRMED booking may exist per worker+date+start
// (partial unique index).
type Booking struct {
	ID         string `json:"id"`
	BranchID   string `json:"branchId"`
	ServiceID  string `json:"serviceId"`
	WorkerID   string `json:"workerId"`
	GuestID    string `json:"guestId"`
	SlotLockID string `json:"-"`

	BookingDate     time.Time `json:"bookingDate"`
	StartTime       TimeOfDay `json:"startTime"`
	EndTime         TimeOfDay `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`

	Status        BookingStatus        `json:"status"`
	PaymentStatus BookingPaymentStatus `json:"paymentStatus"`
	AmountMinor   int64                `json:"amountMinor"`

	// Secure access token for the guest inbox; emailed, no login required.
	AccessToken string `json:"-"`

	Notes    string `json:"notes,omitempty"`
	IsManual bool   `json:"isManual"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Denormalised display fields, populated on reads that join.
	BranchName  string `json:"branchName,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	WorkerName  string `json:"workerName,omitempty"`
	GuestName   string `json:"guestName,omitempty"`
	GuestPhone  string `json:"guestPhone,omitempty"`
	GuestEmail  string `json:"-"`
}

// ShortRef is the first 8 characters of the booking ID in uppercase,
// used as the guest-facing reference.
func (b *Booking) ShortRef() string {
	if len(b.ID) < 8 {
		return strings.ToUpper(b.ID)
	}
	return strings.ToUpper(b.ID[:8])
}

// BookingStatusLog is an immutable audit row for every status transition.
type BookingStatusLog struct {
	ID         string        `json:"id"`
	BookingID  string        `json:"bookingId"`
	FromStatus BookingStatus `json:"fromStatus"`
	ToStatus   BookingStatus `json:"toStatus"`
	ChangedBy  string        `json:"changedBy"`
	Reason     string        `json:"reason,omitempty"`
	ChangedAt  time.Time     `json:"changedAt"`
}

// BookingFilter narrows dashboard booking lists.
type BookingFilter struct {
	Status   BookingStatus
	BranchID string
	Date     *time.Time
	Limit    int
	Offset   int
}
