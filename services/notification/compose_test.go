package notification

import (
	"testing"
	"time"

	"serenity/models"

	"github.com/stretchr/testify/assert"
)

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:          "a1b2c3d4-0000-0000-0000-000000000000",
		GuestName:   "Priya",
		ServiceName: "Swedish Massage",
		WorkerName:  "Asha K",
		BranchName:  "Koramangala",
		BookingDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   models.MustTimeOfDay("10:00"),
		EndTime:     models.MustTimeOfDay("11:00"),
		AccessToken: "tok-123",
	}
}

func TestComposeConfirmed(t *testing.T) {
	t.Parallel()

	subject, body := composeConfirmed(sampleBooking(), "https://serenity.example")

	assert.Equal(t, "Booking confirmed - Swedish Massage on 2 Jun 2025", subject)
	assert.Contains(t, body, "Hi Priya,")
	assert.Contains(t, body, "Reference: A1B2C3D4")
	assert.Contains(t, body, "Monday, 2 June 2025")
	assert.Contains(t, body, "10:00 AM - 11:00 AM")
	assert.Contains(t, body, "https://serenity.example/bookings/view/tok-123")
}

func TestComposeCancelled(t *testing.T) {
	t.Parallel()

	subject, body := composeCancelled(sampleBooking(), "therapist unavailable")
	assert.Equal(t, "Booking cancelled - A1B2C3D4", subject)
	assert.Contains(t, body, "has been cancelled")
	assert.Contains(t, body, "Reason: therapist unavailable")

	_, body = composeCancelled(sampleBooking(), "")
	assert.NotContains(t, body, "Reason:")
}

func TestComposeReassigned(t *testing.T) {
	t.Parallel()

	subject, body := composeReassigned(sampleBooking(), "Meera S", "https://serenity.example")
	assert.Equal(t, "Therapist update for booking A1B2C3D4", subject)
	assert.Contains(t, body, "changed from Meera S to Asha K")
	assert.Contains(t, body, "Your date, time and service are unchanged.")
	assert.Contains(t, body, "/bookings/view/tok-123")
}

func TestManageURLTrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	b := sampleBooking()
	assert.Equal(t, "https://serenity.example/bookings/view/tok-123",
		manageURL("https://serenity.example/", b))
}
