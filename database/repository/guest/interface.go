package guestRepo

import (
	"context"

	"serenity/models"
)

// GuestRepository defines data access for booking customers.
// Guests are identified by normalised phone number, never by an account.
type GuestRepository interface {
	// GetByID retrieves a guest by ID.
	GetByID(ctx context.Context, id string) (*models.Guest, error)
	// GetOrCreateByPhone deduplicates by normalised phone, refreshing name
	// and e-mail on repeat bookings. Returns the guest and whether a new
	// record was created. The phone must already be normalised.
	GetOrCreateByPhone(ctx context.Context, name, phone, email string) (*models.Guest, bool, error)
}
