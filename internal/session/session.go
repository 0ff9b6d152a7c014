// Package session holds simulated logins. A session only carries the
// authenticated flag the link registry checks; there are no credentials.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"secure.links/internal/crypto"
	"secure.links/internal/models"
)

var (
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrNotFound     = errors.New("session not found")
)

type Manager struct {
	sessions *expirable.LRU[string, *models.Session]
	now      func() time.Time
}

// NewManager keeps at most maxSessions sessions. A session expires after
// idleTTL without a Lookup.
func NewManager(maxSessions int, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: expirable.NewLRU[string, *models.Session](maxSessions, nil, idleTTL),
		now:      time.Now,
	}
}

func (m *Manager) Login(email string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.Session{}, ErrInvalidEmail
	}

	sess := &models.Session{
		ID:            crypto.GenerateID(),
		Email:         email,
		Authenticated: true,
		CreatedAt:     m.now(),
	}
	m.sessions.Add(sess.ID, sess)
	return *sess, nil
}

func (m *Manager) Lookup(id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	sess, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	// Get does not renew the TTL; Add on an existing key does.
	m.sessions.Add(id, sess)
	out := *sess
	return &out, nil
}

func (m *Manager) Logout(id string) bool {
	return m.sessions.Remove(id)
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}
