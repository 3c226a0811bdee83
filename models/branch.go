package models

import "time"

// Branch represents a physical spa location.
type Branch struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email,omitempty"`
	GoogleMapsURL string    `json:"googleMapsUrl,omitempty"`
	OpeningTime   TimeOfDay `json:"openingTime"`
	ClosingTime   TimeOfDay `json:"closingTime"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Weekdays the branch is open, 0=Monday .. 6=Sunday.
	WorkingDays []int `json:"workingDays,omitempty"`
}

// OpenOn reports whether the branch opens on the given weekday (0=Monday).
func (b *Branch) OpenOn(weekday int) bool {
	for _, d := range b.WorkingDays {
		if d == weekday {
			return true
		}
	}
	return false
}
