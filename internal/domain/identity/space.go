package identity

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// SpaceStatus represents the status of a household space
type SpaceStatus string

const (
	SpaceStatusActive    SpaceStatus = "active"
	SpaceStatusSuspended SpaceStatus = "suspended" // Suspended due to billing issues
	SpaceStatusArchived  SpaceStatus = "archived"  // Soft-deleted by the owner
)

// Invite codes are short and human-readable; ambiguous characters excluded
const (
	inviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// ChoreSettings holds the reward tuning knobs for a space. Every chore
// completion in the space is scored against these values.
type ChoreSettings struct {
	BasePoints          int  `json:"base_points"`           // Default points when a chore has none set
	MaxPointsPerChore   int  `json:"max_points_per_chore"`  // Upper clamp for any single completion
	StreakBonusPoints   int  `json:"streak_bonus_points"`   // Bonus awarded at each streak interval
	StreakBonusInterval int  `json:"streak_bonus_interval"` // Award bonus every N consecutive days
	LatePenaltyPoints   int  `json:"late_penalty_points"`   // Deducted when completed past due + grace
	GracePeriodHours    int  `json:"grace_period_hours"`    // Hours past due before a completion is late
	PenaltyEnabled      bool `json:"penalty_enabled"`       // Spaces can opt out of late penalties
}

// DefaultChoreSettings returns the reward settings applied to new spaces
func DefaultChoreSettings() ChoreSettings {
	return ChoreSettings{
		BasePoints:          10,
		MaxPointsPerChore:   100,
		StreakBonusPoints:   5,
		StreakBonusInterval: 5,
		LatePenaltyPoints:   5,
		GracePeriodHours:    24,
		PenaltyEnabled:      true,
	}
}

// Space represents a household in the multi-tenant system.
// It is the aggregate root for household-level operations and carries
// the reward settings shared by all chores in the household.
type Space struct {
	shared.BaseAggregateRoot
	Name          string        `gorm:"type:varchar(200);not null"`
	InviteCode    string        `gorm:"type:varchar(16);not null;uniqueIndex"`
	Status        SpaceStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	OwnerID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	AvatarURL     string        `gorm:"type:varchar(500)"`
	Timezone      string        `gorm:"type:varchar(100);not null;default:'UTC'"`
	Currency      string        `gorm:"type:varchar(10);not null;default:'USD'"`
	ChoreSettings ChoreSettings `gorm:"embedded;embeddedPrefix:chore_"`
	Notes         string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Space) TableName() string {
	return "spaces"
}

// NewSpace creates a new household space owned by the given user
func NewSpace(name string, ownerID uuid.UUID) (*Space, error) {
	if err := validateSpaceName(name); err != nil {
		return nil, err
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, shared.NewDomainError("INVITE_CODE_ERROR", "Failed to generate invite code")
	}

	space := &Space{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		InviteCode:        code,
		Status:            SpaceStatusActive,
		OwnerID:           ownerID,
		Timezone:          "UTC",
		Currency:          "USD",
		ChoreSettings:     DefaultChoreSettings(),
	}

	space.AddDomainEvent(NewSpaceCreatedEvent(space))

	return space, nil
}

// Rename updates the space's name
func (s *Space) Rename(name string) error {
	if err := validateSpaceName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetAvatarURL sets the space's avatar image URL
func (s *Space) SetAvatarURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Avatar URL cannot exceed 500 characters")
	}

	s.AvatarURL = url
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetTimezone sets the space's IANA timezone, used for due-date math
func (s *Space) SetTimezone(tz string) error {
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone")
	}

	s.Timezone = tz
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetCurrency sets the space's ISO 4217 currency code for budgets
func (s *Space) SetCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO 4217 code")
	}

	s.Currency = code
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// UpdateChoreSettings replaces the space's reward settings
func (s *Space) UpdateChoreSettings(settings ChoreSettings) error {
	if settings.BasePoints < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Base points cannot be negative")
	}
	if settings.MaxPointsPerChore <= 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Max points per chore must be positive")
	}
	if settings.StreakBonusInterval <= 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Streak bonus interval must be positive")
	}
	if settings.StreakBonusPoints < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Streak bonus points cannot be negative")
	}
	if settings.LatePenaltyPoints < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Late penalty points cannot be negative")
	}
	if settings.GracePeriodHours < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Grace period cannot be negative")
	}

	s.ChoreSettings = settings
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSpaceSettingsUpdatedEvent(s))

	return nil
}

// RegenerateInviteCode replaces the invite code, invalidating the old one
func (s *Space) RegenerateInviteCode() error {
	code, err := generateInviteCode()
	if err != nil {
		return shared.NewDomainError("INVITE_CODE_ERROR", "Failed to generate invite code")
	}

	s.InviteCode = code
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// TransferOwnership moves ownership to another member
func (s *Space) TransferOwnership(newOwnerID uuid.UUID) error {
	if newOwnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if newOwnerID == s.OwnerID {
		return shared.NewDomainError("INVALID_OWNER", "User is already the owner")
	}

	s.OwnerID = newOwnerID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Suspend suspends the space (e.g., due to billing issues)
func (s *Space) Suspend() error {
	if s.Status == SpaceStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Space is already suspended")
	}

	s.Status = SpaceStatusSuspended
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate reactivates a suspended or archived space
func (s *Space) Activate() error {
	if s.Status == SpaceStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Space is already active")
	}

	s.Status = SpaceStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Archive soft-deletes the space
func (s *Space) Archive() error {
	if s.Status == SpaceStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Space is already archived")
	}

	s.Status = SpaceStatusArchived
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsActive returns true if the space is active
func (s *Space) IsActive() bool {
	return s.Status == SpaceStatusActive
}

// Location resolves the space's timezone, falling back to UTC
func (s *Space) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validation functions

func validateSpaceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Space name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Space name cannot exceed 200 characters")
	}
	return nil
}

func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range buf {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
