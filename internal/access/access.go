// Package access tracks which team members a document is shared with and
// what they may do with it.
package access

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"secure.links/internal/models"
)

var (
	ErrNoMembers         = errors.New("select at least one team member")
	ErrInvalidPermission = errors.New("permission must be read or edit")
	ErrNotFound          = errors.New("access grant not found")
)

var changesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "securelinks_access_changes_total",
		Help: "Document access changes by action.",
	},
	[]string{"action"},
)

// Directory resolves team member ids.
type Directory interface {
	Member(id string) (models.TeamMember, error)
}

// Share is one member picked in a share request. An empty permission means read.
type Share struct {
	MemberID   string            `json:"member_id"`
	Permission models.Permission `json:"permission"`
}

type Manager struct {
	dir Directory
	now func() time.Time

	mu     sync.RWMutex
	grants map[string][]*models.AccessGrant // by document id, in grant order
}

func NewManager(dir Directory) *Manager {
	return &Manager{
		dir:    dir,
		now:    time.Now,
		grants: make(map[string][]*models.AccessGrant),
	}
}

// Share grants every member in shares access to docID. The request is
// checked as a whole: one unknown member or bad permission rejects it all.
// Sharing again with a member already on the list updates their permission.
func (m *Manager) Share(docID string, shares []Share, grantedBy string) ([]models.AccessGrant, error) {
	if len(shares) == 0 {
		return nil, ErrNoMembers
	}

	type pick struct {
		member models.TeamMember
		perm   models.Permission
	}
	picks := make([]pick, 0, len(shares))
	for _, s := range shares {
		perm := s.Permission
		if perm == "" {
			perm = models.PermissionRead
		}
		if !perm.Valid() {
			return nil, ErrInvalidPermission
		}
		member, err := m.dir.Member(s.MemberID)
		if err != nil {
			return nil, fmt.Errorf("sharing with %q: %w", s.MemberID, err)
		}
		picks = append(picks, pick{member: member, perm: perm})
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range picks {
		if g := m.findLocked(docID, p.member.ID); g != nil {
			g.Permission = p.perm
			g.UpdatedAt = now
			continue
		}
		m.grants[docID] = append(m.grants[docID], &models.AccessGrant{
			DocumentID: docID,
			MemberID:   p.member.ID,
			Name:       p.member.Name,
			Email:      p.member.Email,
			Permission: p.perm,
			GrantedBy:  grantedBy,
			GrantedAt:  now,
			UpdatedAt:  now,
		})
	}
	changesTotal.WithLabelValues("share").Add(float64(len(picks)))

	return m.listLocked(docID), nil
}

// List returns the grants on docID in the order they were made.
func (m *Manager) List(docID string) []models.AccessGrant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(docID)
}

func (m *Manager) Update(docID, memberID string, perm models.Permission) (models.AccessGrant, error) {
	if !perm.Valid() {
		return models.AccessGrant{}, ErrInvalidPermission
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.findLocked(docID, memberID)
	if g == nil {
		return models.AccessGrant{}, ErrNotFound
	}
	g.Permission = perm
	g.UpdatedAt = m.now()
	changesTotal.WithLabelValues("update").Inc()
	return *g, nil
}

func (m *Manager) Remove(docID, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	grants := m.grants[docID]
	for i, g := range grants {
		if g.MemberID != memberID {
			continue
		}
		grants = append(grants[:i], grants[i+1:]...)
		if len(grants) == 0 {
			delete(m.grants, docID)
		} else {
			m.grants[docID] = grants
		}
		changesTotal.WithLabelValues("remove").Inc()
		return nil
	}
	return ErrNotFound
}

func (m *Manager) findLocked(docID, memberID string) *models.AccessGrant {
	for _, g := range m.grants[docID] {
		if g.MemberID == memberID {
			return g
		}
	}
	return nil
}

func (m *Manager) listLocked(docID string) []models.AccessGrant {
	grants := m.grants[docID]
	out := make([]models.AccessGrant, len(grants))
	for i, g := range grants {
		out[i] = *g
	}
	return out
}
