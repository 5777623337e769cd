package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("password123"))
		assert.False(t, user.VerifyPassword("wrong"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("ab", "a@example.com", "password123")
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("alice", "not-an-email", "password123")
		assert.Error(t, err)
	})

	t.Run("rejects password without number", func(t *testing.T) {
		_, err := NewUser("alice", "alice@example.com", "passwordonly")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("alice", "alice@example.com", "p1")
		assert.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("fails with wrong old password", func(t *testing.T) {
		err := user.ChangePassword("wrong", "newpass456")
		assert.Error(t, err)
	})

	t.Run("succeeds with correct old password", func(t *testing.T) {
		err := user.ChangePassword("password123", "newpass456")
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("newpass456"))
		assert.False(t, user.VerifyPassword("password123"))
	})
}

func TestUser_LockUnlock(t *testing.T) {
	t.Run("lock with duration expires", func(t *testing.T) {
		user, err := NewUser("alice", "alice@example.com", "password123")
		require.NoError(t, err)

		require.NoError(t, user.Lock(time.Hour))
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())

		// Simulate expired lock
		past := time.Now().Add(-time.Minute)
		user.LockedUntil = &past
		assert.False(t, user.IsLocked())
	})

	t.Run("unlock restores active status", func(t *testing.T) {
		user, err := NewUser("alice", "alice@example.com", "password123")
		require.NoError(t, err)

		require.NoError(t, user.Lock(time.Hour))
		require.NoError(t, user.Unlock())
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Equal(t, 0, user.FailedAttempts)
	})

	t.Run("cannot lock deactivated user", func(t *testing.T) {
		user, err := NewUser("alice", "alice@example.com", "password123")
		require.NoError(t, err)

		require.NoError(t, user.Deactivate())
		assert.Error(t, user.Lock(time.Hour))
	})
}

func TestUser_RecordLoginFailure(t *testing.T) {
	user, err := NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	locked := user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.True(t, locked)
	assert.True(t, user.IsLocked())
}

func TestUser_RecordLoginSuccess(t *testing.T) {
	user, err := NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	user.FailedAttempts = 2

	user.RecordLoginSuccess("192.0.2.1")

	assert.Equal(t, 0, user.FailedAttempts)
	assert.Equal(t, "192.0.2.1", user.LastLoginIP)
	require.NotNil(t, user.LastLoginAt)
	require.NotNil(t, user.LastActiveAt)
}

func TestUser_TouchActivity(t *testing.T) {
	user, err := NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	at := time.Now().Truncate(time.Second)
	user.TouchActivity(at)

	require.NotNil(t, user.LastActiveAt)
	assert.Equal(t, at, *user.LastActiveAt)
}

func TestUser_SetTimezone(t *testing.T) {
	user, err := NewUser("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	assert.NoError(t, user.SetTimezone("Europe/Berlin"))
	assert.Equal(t, "Europe/Berlin", user.Timezone)
	assert.Error(t, user.SetTimezone("Not/AZone"))
}
