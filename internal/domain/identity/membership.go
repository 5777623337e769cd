package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// MemberRole represents a member's role within a space
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"  // Full control, exactly one per space
	MemberRoleAdmin  MemberRole = "admin"  // Manage members, chores, budgets
	MemberRoleMember MemberRole = "member" // Regular participation
	MemberRoleChild  MemberRole = "child"  // Restricted: no budgets, no member management
)

// Membership links a user to a space with a role. It is space scoped so
// queries inherit household isolation.
type Membership struct {
	shared.SpaceAggregateRoot
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Role     MemberRole `gorm:"type:varchar(20);not null;default:'member'"`
	Nickname string     `gorm:"type:varchar(100)"` // Name shown within this household
	JoinedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Membership) TableName() string {
	return "memberships"
}

// NewMembership creates a membership for a user joining a space
func NewMembership(spaceID, userID uuid.UUID, role MemberRole) (*Membership, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if err := validateMemberRole(role); err != nil {
		return nil, err
	}

	m := &Membership{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		UserID:             userID,
		Role:               role,
		JoinedAt:           time.Now(),
	}

	m.AddDomainEvent(NewMemberJoinedEvent(m))

	return m, nil
}

// ChangeRole updates the member's role. Ownership is transferred through
// Space.TransferOwnership, not here.
func (m *Membership) ChangeRole(role MemberRole) error {
	if err := validateMemberRole(role); err != nil {
		return err
	}
	if m.Role == MemberRoleOwner {
		return shared.NewDomainError("OWNER_ROLE_LOCKED", "Owner role changes require an ownership transfer")
	}
	if role == MemberRoleOwner {
		return shared.NewDomainError("OWNER_ROLE_LOCKED", "Use ownership transfer to promote an owner")
	}

	m.Role = role
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// SetNickname sets the member's display name within the household
func (m *Membership) SetNickname(nickname string) error {
	if nickname != "" && len(nickname) > 100 {
		return shared.NewDomainError("INVALID_NICKNAME", "Nickname cannot exceed 100 characters")
	}

	m.Nickname = strings.TrimSpace(nickname)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// PromoteToOwner marks this membership as the owner. Called only by the
// ownership transfer flow, which demotes the previous owner in the same
// transaction.
func (m *Membership) PromoteToOwner() {
	m.Role = MemberRoleOwner
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// DemoteToAdmin downgrades an owner to admin during ownership transfer
func (m *Membership) DemoteToAdmin() {
	m.Role = MemberRoleAdmin
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// IsOwner returns true if the member owns the space
func (m *Membership) IsOwner() bool {
	return m.Role == MemberRoleOwner
}

// CanManageMembers returns true if the member can invite/remove members
func (m *Membership) CanManageMembers() bool {
	return m.Role == MemberRoleOwner || m.Role == MemberRoleAdmin
}

// CanManageChores returns true if the member can create and edit chores
func (m *Membership) CanManageChores() bool {
	return m.Role != MemberRoleChild
}

// CanManageBudgets returns true if the member can view and edit budgets
func (m *Membership) CanManageBudgets() bool {
	return m.Role != MemberRoleChild
}

func validateMemberRole(role MemberRole) error {
	switch role {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember, MemberRoleChild:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Invalid member role")
	}
}
