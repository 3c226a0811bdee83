package models

import "time"

// AnyWorker is the sentinel worker selection for "any available therapist".
// Resolution to a concrete worker happens at slot-lock time via the
// least-booked fairness pick.
const AnyWorker = "any"

// AvailableSlot is one bookable window offered to the guest. Start/End are
// the visible session times; the hidden buffer extends the reserved block.
type AvailableSlot struct {
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
	Display string    `json:"display"`
}

// BookingSession is the in-flight state of the multi-step booking flow,
// stored in Redis under SessionID with a sliding TTL. The client holds only
// the SessionID. Re-entering an earlier step invalidates everything after it.
type BookingSession struct {
	SessionID string `json:"sessionId"`

	BranchID  string `json:"branchId,omitempty"`
	ServiceID string `json:"serviceId,omitempty"`
	// WorkerID is a worker ID or AnyWorker.
	WorkerID    string `json:"workerId,omitempty"`
	BookingDate string `json:"bookingDate,omitempty"`
	StartTime   string `json:"startTime,omitempty"`

	// Set once the slot lock step succeeds. AssignedWorkerID is the concrete
	// worker after "any" resolution.
	SlotLockID       string `json:"slotLockId,omitempty"`
	AssignedWorkerID string `json:"assignedWorkerId,omitempty"`

	GuestID    string `json:"guestId,omitempty"`
	GuestName  string `json:"guestName,omitempty"`
	GuestPhone string `json:"guestPhone,omitempty"`
	GuestEmail string `json:"guestEmail,omitempty"`

	BookingID string `json:"bookingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Booking session steps, in order. A step is complete when its checkpoint
// field is set.
const (
	StepBranch = iota + 1
	StepService
	StepWorker
	StepDate
	StepSlot
	StepGuest
	StepReview
)

// StepComplete reports whether every checkpoint up to and including the
// given step is present.
func (s *BookingSession) StepComplete(step int) bool {
	checkpoints := []string{
		s.BranchID,
		s.ServiceID,
		s.WorkerID,
		s.BookingDate,
		s.StartTime,
		s.GuestPhone,
		s.SlotLockID,
	}
	if step < 1 || step > len(checkpoints) {
		return false
	}
	for i := 0; i < step; i++ {
		if checkpoints[i] == "" {
			return false
		}
	}
	return true
}

// ReviewSummary is what the guest sees on the final review step, together
// with the payment intent needed to settle the booking.
type ReviewSummary struct {
	Booking      *Booking    `json:"booking"`
	Service      *Service    `json:"service"`
	Branch       *Branch     `json:"branch"`
	Worker       *Worker     `json:"worker"`
	AmountMinor  int64       `json:"amountMinor"`
	Currency     string      `json:"currency"`
	Kind         PaymentKind `json:"kind"`
	ClientSecret string      `json:"clientSecret"`
	LockExpires  time.Time   `json:"lockExpires"`
}
