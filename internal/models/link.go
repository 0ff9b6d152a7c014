package models

import "time"

type SecureLink struct {
	ID               string        `json:"id"`
	DocumentID       string        `json:"document_id"`
	DocumentName     string        `json:"document_name"`
	Token            string        `json:"-"`
	Link             string        `json:"link"`
	ExpiresAt        time.Time     `json:"expires_at"`
	ExpiresLabel     string        `json:"expires_label"` // 15:04:05 local clock
	Remaining        time.Duration `json:"-"`
	RemainingMinutes float64       `json:"remaining_minutes"`
	Active           bool          `json:"active"`
	Revoked          bool          `json:"revoked"`
	CreatedAt        time.Time     `json:"created_at"`
}

// LinkRecord is what the token index keeps to resolve /dl/{token}.
type LinkRecord struct {
	Token        string
	LinkID       string
	DocumentID   string
	DocumentName string
	ExpiresAt    time.Time
}
