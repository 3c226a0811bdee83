package booking

import "fmt"

// FlowError is a guest-facing booking flow failure. Code is stable for
// clients; Message is safe to display.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrSlotConflict: a CONFIRMED booking already holds the requested slot.
	ErrSlotConflict = &FlowError{
		Code:    "slotConflict",
		Message: "This slot was just confirmed by another customer. Please choose a different time.",
	}
	// ErrSlotLocked: an active lock holds the slot while another guest pays.
	ErrSlotLocked = &FlowError{
		Code:    "slotLocked",
		Message: "This slot is being held by another customer completing their payment. Please choose a different time or try again shortly.",
	}
	// ErrSameDayCutoff: the slot starts too soon for a same-day booking.
	ErrSameDayCutoff = &FlowError{
		Code:    "sameDayCutoff",
		Message: "This slot is too close to the current time. Please choose a later slot.",
	}
	// ErrNoWorkersAvailable: "any therapist" was selected but nobody is free.
	ErrNoWorkersAvailable = &FlowError{
		Code:    "noWorkersAvailable",
		Message: "No therapists are available for the selected slot.",
	}
	// ErrInvalidSlot: the requested start time is not a valid slot boundary.
	ErrInvalidSlot = &FlowError{
		Code:    "invalidSlot",
		Message: "The selected time is not available for this service.",
	}
	// ErrDateUnavailable: the date is in the past or the branch is closed.
	ErrDateUnavailable = &FlowError{
		Code:    "dateUnavailable",
		Message: "Bookings are not available on the selected date.",
	}
	// ErrSessionNotFound: the booking session expired or never existed.
	ErrSessionNotFound = &FlowError{
		Code:    "sessionNotFound",
		Message: "Your booking session has expired. Please start again.",
	}
	// ErrStepIncomplete: an earlier step of the flow has not been completed.
	ErrStepIncomplete = &FlowError{
		Code:    "stepIncomplete",
		Message: "Please complete the previous steps first.",
	}
)
