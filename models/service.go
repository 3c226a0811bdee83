package models

import "time"

// Service is a bookable treatment. Each duration variant is its own row:
// "Swedish Massage 30 min" and "Swedish Massage 45 min" are separate
// services with their own price, which keeps slot generation and pricing
// self-contained. A service can be offered at multiple branches.
type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	// Cleanup gap appended after each session, hidden from guests.
	BufferMinutes int       `json:"-"`
	PriceMinor    int64     `json:"priceMinor"`
	Benefits      string    `json:"benefits,omitempty"`
	IsActive      bool      `json:"isActive"`
	BranchIDs     []string  `json:"branchIds,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TotalBlockMinutes is the full window a booking occupies including buffer.
func (s *Service) TotalBlockMinutes() int {
	return s.DurationMinutes + s.BufferMinutes
}

// DepositMinor is the deposit charge for the given percentage of the price.
func (s *Service) DepositMinor(percent int) int64 {
	return s.PriceMinor * int64(percent) / 100
}

// ServiceVariant is one catalog entry with the deposit charge precomputed
// for the guest-facing price display.
type ServiceVariant struct {
	Service
	DepositMinor int64 `json:"depositMinor"`
}

// ServiceGroup bundles the duration variants of one treatment name,
// sorted by duration, for the public catalog.
type ServiceGroup struct {
	Name     string           `json:"name"`
	Variants []ServiceVariant `json:"variants"`
}
