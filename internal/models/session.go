package models

import "time"

type Session struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}
