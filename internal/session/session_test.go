package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLookupLogout(t *testing.T) {
	m := NewManager(10, time.Minute)

	sess, err := m.Login("  admin@inno.com ")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "admin@inno.com", sess.Email)

	got, err := m.Lookup(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	assert.True(t, m.Logout(sess.ID))
	assert.False(t, m.Logout(sess.ID))

	_, err = m.Lookup(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	m := NewManager(10, time.Minute)

	for _, email := range []string{"", "   ", "no-at-sign"} {
		_, err := m.Login(email)
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
	assert.Equal(t, 0, m.Len())
}

func TestLookupEmptyID(t *testing.T) {
	m := NewManager(10, time.Minute)
	_, err := m.Lookup("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionsExpire(t *testing.T) {
	m := NewManager(10, 50*time.Millisecond)

	sess, err := m.Login("estudiante@test.com")
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)
	_, err = m.Lookup(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupRenewsIdleTimeout(t *testing.T) {
	m := NewManager(10, 150*time.Millisecond)

	sess, err := m.Login("docente@inno.com")
	require.NoError(t, err)

	// active well past the idle timeout, never idle for longer than half of it
	for i := 0; i < 5; i++ {
		time.Sleep(60 * time.Millisecond)
		_, err := m.Lookup(sess.ID)
		require.NoError(t, err, "lookup %d", i)
	}

	time.Sleep(250 * time.Millisecond)
	_, err = m.Lookup(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOldestSessionEvicted(t *testing.T) {
	m := NewManager(2, time.Minute)

	first, err := m.Login("a@test.com")
	require.NoError(t, err)
	_, err = m.Login("b@test.com")
	require.NoError(t, err)
	_, err = m.Login("c@test.com")
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	_, err = m.Lookup(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
