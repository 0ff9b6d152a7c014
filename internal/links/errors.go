package links

import (
	"errors"

	"secure.links/internal/models"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("link not found")
	ErrExpired      = errors.New("link has expired")
	ErrRevoked      = errors.New("link has been revoked")
)

// Authorize returns ErrAuthRequired unless sess is an authenticated session.
func Authorize(sess *models.Session) error {
	if sess == nil || !sess.Authenticated {
		authRejectionsTotal.Inc()
		return ErrAuthRequired
	}
	return nil
}
