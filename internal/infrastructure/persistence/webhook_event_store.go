package persistence

import (
	"context"
	"time"

	"github.com/homehub/backend/internal/domain/billing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// processedWebhookEvent records a provider event ID that has already
// been handled, so webhook redeliveries become no-ops.
type processedWebhookEvent struct {
	EventID     string    `gorm:"type:varchar(100);primary_key"`
	ProcessedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (processedWebhookEvent) TableName() string {
	return "processed_webhook_events"
}

// GormWebhookEventStore implements WebhookEventStore using GORM
type GormWebhookEventStore struct {
	db *gorm.DB
}

// NewGormWebhookEventStore creates a new GormWebhookEventStore
func NewGormWebhookEventStore(db *gorm.DB) *GormWebhookEventStore {
	return &GormWebhookEventStore{db: db}
}

// MarkProcessed records an event ID, returning false if it was already
// processed. The insert relies on the primary key conflict so two
// concurrent deliveries of the same event cannot both win.
func (s *GormWebhookEventStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&processedWebhookEvent{
			EventID:     eventID,
			ProcessedAt: time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormWebhookEventStore implements WebhookEventStore
var _ billing.WebhookEventStore = (*GormWebhookEventStore)(nil)
