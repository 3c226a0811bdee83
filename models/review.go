package models

import (
	"strings"
	"time"
)

// Review is a client review featuring an Instagram video embed.
type Review struct {
	ID           string    `json:"id"`
	ClientName   string    `json:"clientName"`
	InstagramURL string    `json:"instagramUrl"`
	IsPublished  bool      `json:"isPublished"`
	SortOrder    int       `json:"sortOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EmbedURL converts the stored Instagram URL to its embeddable form,
// e.g. https://www.instagram.com/reels/XYZ/ -> .../reels/XYZ/embed/
func (r *Review) EmbedURL() string {
	url := strings.TrimSpace(r.InstagramURL)
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	if !strings.Contains(url, "/embed/") {
		url += "embed/"
	}
	return url
}

// ReviewView is the public payload for a published review, with the
// embeddable URL precomputed for the frontend.
type ReviewView struct {
	Review
	EmbedURL string `json:"embedUrl"`
}
