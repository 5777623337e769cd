package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// SpaceAggregateRoot extends BaseAggregateRoot with household (space) scoping.
// Every space-owned aggregate embeds this so persistence can enforce
// space isolation on all queries.
type SpaceAggregateRoot struct {
	BaseAggregateRoot
	SpaceID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // Member who created this record
}

// NewSpaceAggregateRoot creates a new space-scoped aggregate root
func NewSpaceAggregateRoot(spaceID uuid.UUID) SpaceAggregateRoot {
	return SpaceAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		SpaceID:           spaceID,
	}
}

// NewSpaceAggregateRootWithCreator creates a new space-scoped aggregate root with creator info
func NewSpaceAggregateRootWithCreator(spaceID, createdBy uuid.UUID) SpaceAggregateRoot {
	return SpaceAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		SpaceID:           spaceID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (s *SpaceAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	s.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (s *SpaceAggregateRoot) GetCreatedBy() *uuid.UUID {
	return s.CreatedBy
}
