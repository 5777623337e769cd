package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByIDs finds users by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// TouchLastActive updates only the last-active timestamp, without
	// bumping the aggregate version
	TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SpaceRepository defines the interface for space persistence
type SpaceRepository interface {
	// Create creates a new space
	Create(ctx context.Context, space *Space) error

	// Update updates an existing space
	Update(ctx context.Context, space *Space) error

	// Delete deletes a space by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a space by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Space, error)

	// FindByInviteCode finds a space by its invite code
	FindByInviteCode(ctx context.Context, code string) (*Space, error)

	// FindByUserID returns all spaces the user is a member of
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Space, error)

	// CountByOwnerID returns the number of spaces a user owns
	CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, m *Membership) error

	// Update updates an existing membership
	Update(ctx context.Context, m *Membership) error

	// Delete deletes a membership by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a membership by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Membership, error)

	// FindBySpaceAndUser finds the membership linking a user to a space
	FindBySpaceAndUser(ctx context.Context, spaceID, userID uuid.UUID) (*Membership, error)

	// FindBySpaceID returns all members of a space
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*Membership, error)

	// FindByUserID returns all memberships for a user
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Membership, error)

	// CountBySpaceID returns the number of members in a space
	CountBySpaceID(ctx context.Context, spaceID uuid.UUID) (int64, error)
}
