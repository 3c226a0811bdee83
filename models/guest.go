package models

import (
	"fmt"
	"time"
	"unicode"
)

// Guest is a booking customer without an account. The normalised phone
// number is the canonical identity key; name and e-mail are refreshed on
// subsequent bookings by the same guest.
type Guest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizePhone normalises an Indian mobile number to exactly 10 digits,
// so the same guest always deduplicates regardless of how they type it:
//
//	+91 98765 43210  →  9876543210
//	091-9876543210   →  9876543210
//	09876543210      →  9876543210
//
// Non-digits are stripped, then a leading 91 country code (12 digits) or
// 0 trunk prefix (11 digits) is removed. Anything that does not end up as
// 10 digits is rejected.
func NormalizePhone(raw string) (string, error) {
	var digits []rune
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	s := string(digits)

	switch {
	case len(s) == 12 && s[:2] == "91":
		s = s[2:]
	case len(s) == 11 && s[0] == '0':
		s = s[1:]
	}

	if len(s) != 10 {
		return "", fmt.Errorf("cannot normalise phone number %q: expected 10 digits after normalisation, got %d", raw, len(s))
	}
	return s, nil
}
