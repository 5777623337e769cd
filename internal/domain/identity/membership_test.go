package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMembership(t *testing.T) {
	spaceID := uuid.New()
	userID := uuid.New()

	t.Run("creates membership with role", func(t *testing.T) {
		m, err := NewMembership(spaceID, userID, MemberRoleMember)
		require.NoError(t, err)

		assert.Equal(t, spaceID, m.SpaceID)
		assert.Equal(t, userID, m.UserID)
		assert.Equal(t, MemberRoleMember, m.Role)
		assert.False(t, m.JoinedAt.IsZero())
		assert.Len(t, m.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := NewMembership(spaceID, userID, MemberRole("boss"))
		assert.Error(t, err)
	})

	t.Run("rejects nil ids", func(t *testing.T) {
		_, err := NewMembership(uuid.Nil, userID, MemberRoleMember)
		assert.Error(t, err)
		_, err = NewMembership(spaceID, uuid.Nil, MemberRoleMember)
		assert.Error(t, err)
	})
}

func TestMembership_ChangeRole(t *testing.T) {
	spaceID := uuid.New()

	t.Run("changes member to admin", func(t *testing.T) {
		m, err := NewMembership(spaceID, uuid.New(), MemberRoleMember)
		require.NoError(t, err)

		require.NoError(t, m.ChangeRole(MemberRoleAdmin))
		assert.Equal(t, MemberRoleAdmin, m.Role)
	})

	t.Run("cannot change owner role directly", func(t *testing.T) {
		m, err := NewMembership(spaceID, uuid.New(), MemberRoleOwner)
		require.NoError(t, err)

		assert.Error(t, m.ChangeRole(MemberRoleMember))
	})

	t.Run("cannot promote to owner directly", func(t *testing.T) {
		m, err := NewMembership(spaceID, uuid.New(), MemberRoleMember)
		require.NoError(t, err)

		assert.Error(t, m.ChangeRole(MemberRoleOwner))
	})
}

func TestMembership_Permissions(t *testing.T) {
	spaceID := uuid.New()

	cases := []struct {
		role          MemberRole
		manageMembers bool
		manageChores  bool
		manageBudgets bool
	}{
		{MemberRoleOwner, true, true, true},
		{MemberRoleAdmin, true, true, true},
		{MemberRoleMember, false, true, true},
		{MemberRoleChild, false, false, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			m, err := NewMembership(spaceID, uuid.New(), tc.role)
			require.NoError(t, err)

			assert.Equal(t, tc.manageMembers, m.CanManageMembers())
			assert.Equal(t, tc.manageChores, m.CanManageChores())
			assert.Equal(t, tc.manageBudgets, m.CanManageBudgets())
		})
	}
}

func TestMembership_OwnershipTransfer(t *testing.T) {
	spaceID := uuid.New()

	owner, err := NewMembership(spaceID, uuid.New(), MemberRoleOwner)
	require.NoError(t, err)
	member, err := NewMembership(spaceID, uuid.New(), MemberRoleMember)
	require.NoError(t, err)

	owner.DemoteToAdmin()
	member.PromoteToOwner()

	assert.Equal(t, MemberRoleAdmin, owner.Role)
	assert.True(t, member.IsOwner())
}
