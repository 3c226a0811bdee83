package notification

import (
	"fmt"
	"strings"

	"serenity/models"
)

const dateDisplay = "Monday, 2 January 2006"

// composeConfirmed builds the confirmation e-mail with the secure manage link.
func composeConfirmed(b *models.Booking, siteURL string) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed - %s on %s",
		b.ServiceName, b.BookingDate.Format("2 Jan 2006"))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.GuestName)
	fmt.Fprintf(&sb, "Your booking is confirmed. Reference: %s\n\n", b.ShortRef())
	writeDetails(&sb, b)
	fmt.Fprintf(&sb, "\nView or manage your booking:\n%s\n", manageURL(siteURL, b))
	sb.WriteString("\nPlease arrive 10 minutes early. We look forward to seeing you.\n")
	return subject, sb.String()
}

// composeCancelled builds the cancellation notice.
func composeCancelled(b *models.Booking, reason string) (subject, body string) {
	subject = fmt.Sprintf("Booking cancelled - %s", b.ShortRef())

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.GuestName)
	fmt.Fprintf(&sb, "Your booking %s has been cancelled.\n\n", b.ShortRef())
	writeDetails(&sb, b)
	if reason != "" {
		fmt.Fprintf(&sb, "\nReason: %s\n", reason)
	}
	sb.WriteString("\nIf this was unexpected, please contact the branch directly.\n")
	return subject, sb.String()
}

// composeReassigned tells the guest their therapist changed; everything else
// about the booking stays the same.
func composeReassigned(b *models.Booking, previousWorker, siteURL string) (subject, body string) {
	subject = fmt.Sprintf("Therapist update for booking %s", b.ShortRef())

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.GuestName)
	fmt.Fprintf(&sb, "Your therapist for booking %s has changed from %s to %s.\n", b.ShortRef(), previousWorker, b.WorkerName)
	sb.WriteString("Your date, time and service are unchanged.\n\n")
	writeDetails(&sb, b)
	fmt.Fprintf(&sb, "\nView your booking:\n%s\n", manageURL(siteURL, b))
	return subject, sb.String()
}

func writeDetails(sb *strings.Builder, b *models.Booking) {
	fmt.Fprintf(sb, "Service:   %s\n", b.ServiceName)
	fmt.Fprintf(sb, "Therapist: %s\n", b.WorkerName)
	fmt.Fprintf(sb, "Branch:    %s\n", b.BranchName)
	fmt.Fprintf(sb, "Date:      %s\n", b.BookingDate.Format(dateDisplay))
	fmt.Fprintf(sb, "Time:      %s - %s\n", b.StartTime.Display(), b.EndTime.Display())
}

func manageURL(siteURL string, b *models.Booking) string {
	return fmt.Sprintf("%s/bookings/view/%s", strings.TrimRight(siteURL, "/"), b.AccessToken)
}
