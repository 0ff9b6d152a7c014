package access

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secure.links/internal/catalog"
	"secure.links/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	docs, err := catalog.Default()
	require.NoError(t, err)

	m := NewManager(docs)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return m
}

func TestShare(t *testing.T) {
	m := newTestManager(t)

	grants, err := m.Share("1", []Share{
		{MemberID: "1", Permission: models.PermissionEdit},
		{MemberID: "2"},
	}, "docente@inno.com")
	require.NoError(t, err)
	require.Len(t, grants, 2)

	assert.Equal(t, "María González", grants[0].Name)
	assert.Equal(t, models.PermissionEdit, grants[0].Permission)
	assert.Equal(t, "carlos@example.com", grants[1].Email)
	assert.Equal(t, models.PermissionRead, grants[1].Permission)
	assert.Equal(t, "docente@inno.com", grants[1].GrantedBy)

	assert.Empty(t, m.List("2"))
}

func TestShareWithNobody(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Share("1", nil, "docente@inno.com")
	assert.ErrorIs(t, err, ErrNoMembers)

	_, err = m.Share("1", []Share{}, "docente@inno.com")
	assert.ErrorIs(t, err, ErrNoMembers)
	assert.Empty(t, m.List("1"))
}

func TestShareIsAllOrNothing(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Share("1", []Share{{MemberID: "1"}, {MemberID: "99"}}, "")
	assert.ErrorIs(t, err, catalog.ErrMemberNotFound)

	_, err = m.Share("1", []Share{{MemberID: "1"}, {MemberID: "2", Permission: "owner"}}, "")
	assert.ErrorIs(t, err, ErrInvalidPermission)

	assert.Empty(t, m.List("1"))
}

func TestShareAgainUpdatesPermission(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Share("1", []Share{{MemberID: "3"}}, "")
	require.NoError(t, err)

	grants, err := m.Share("1", []Share{{MemberID: "3", Permission: models.PermissionEdit}}, "")
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, models.PermissionEdit, grants[0].Permission)
	assert.Equal(t, first[0].GrantedAt, grants[0].GrantedAt)
	assert.True(t, grants[0].UpdatedAt.After(grants[0].GrantedAt))
}

func TestUpdate(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Share("1", []Share{{MemberID: "2"}}, "")
	require.NoError(t, err)

	g, err := m.Update("1", "2", models.PermissionEdit)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionEdit, g.Permission)
	assert.Equal(t, models.PermissionEdit, m.List("1")[0].Permission)

	_, err = m.Update("1", "2", "admin")
	assert.ErrorIs(t, err, ErrInvalidPermission)

	_, err = m.Update("1", "4", models.PermissionRead)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Share("1", []Share{{MemberID: "1"}, {MemberID: "2"}, {MemberID: "3"}}, "")
	require.NoError(t, err)

	require.NoError(t, m.Remove("1", "2"))
	grants := m.List("1")
	require.Len(t, grants, 2)
	assert.Equal(t, "1", grants[0].MemberID)
	assert.Equal(t, "3", grants[1].MemberID)

	assert.ErrorIs(t, m.Remove("1", "2"), ErrNotFound)

	require.NoError(t, m.Remove("1", "1"))
	require.NoError(t, m.Remove("1", "3"))
	assert.Empty(t, m.List("1"))
}

func TestListReturnsCopies(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Share("1", []Share{{MemberID: "1"}}, "")
	require.NoError(t, err)

	grants := m.List("1")
	grants[0].Permission = models.PermissionEdit
	assert.Equal(t, models.PermissionRead, m.List("1")[0].Permission)
}

func TestConcurrentShares(t *testing.T) {
	docs, err := catalog.Default()
	require.NoError(t, err)
	m := NewManager(docs)

	var wg sync.WaitGroup
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := m.Share("1", []Share{{MemberID: id}}, "")
			assert.NoError(t, err)
			m.List("1")
		}(id)
	}
	wg.Wait()

	assert.Len(t, m.List("1"), 5)
}
