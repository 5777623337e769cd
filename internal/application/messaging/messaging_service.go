package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/messaging"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultPageSize = 50

// MessagingService handles the space chat. History visibility follows
// the plan's retention window; the nightly prune job hard-deletes what
// fell out of it.
type MessagingService struct {
	messageRepo    messaging.MessageRepository
	guard          *appbilling.FeatureGuard
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMessagingService creates a new messaging service
func NewMessagingService(
	messageRepo messaging.MessageRepository,
	guard *appbilling.FeatureGuard,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *MessagingService {
	return &MessagingService{
		messageRepo:    messageRepo,
		guard:          guard,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// SendMessage posts a member message to the space chat
func (s *MessagingService) SendMessage(ctx context.Context, input SendMessageInput) (*MessageInfo, error) {
	m, err := messaging.NewMessage(input.SpaceID, input.SenderID, input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.Create(ctx, m); err != nil {
		s.logger.Error("failed to create message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to send message")
	}

	// The message is persisted; a failed fan-out only degrades realtime
	// delivery.
	if err := s.eventPublisher.Publish(ctx, m.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish message event",
			zap.String("message_id", m.ID.String()),
			zap.Error(err))
	}
	m.ClearDomainEvents()

	info := toMessageInfo(m)
	return &info, nil
}

// PostSystemMessage posts an app-generated announcement to the space
// chat. Used by the notification handlers.
func (s *MessagingService) PostSystemMessage(ctx context.Context, spaceID uuid.UUID, body string) error {
	m, err := messaging.NewSystemMessage(spaceID, body)
	if err != nil {
		return err
	}

	if err := s.messageRepo.Create(ctx, m); err != nil {
		s.logger.Error("failed to create system message", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to post announcement")
	}

	if err := s.eventPublisher.Publish(ctx, m.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish system message event", zap.Error(err))
	}
	m.ClearDomainEvents()

	return nil
}

// ListMessages pages backwards through the chat. Messages older than
// the plan's retention window are hidden even if the prune job has not
// removed them yet.
func (s *MessagingService) ListMessages(ctx context.Context, input ListMessagesInput) (*MessageListResult, error) {
	before := input.Before
	if before.IsZero() {
		before = time.Now()
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > 100 {
		limit = 100
	}

	messages, err := s.messageRepo.FindBySpace(ctx, input.SpaceID, before, limit)
	if err != nil {
		s.logger.Error("failed to list messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list messages")
	}

	cutoff := s.retentionCutoff(ctx, input.SpaceID, time.Now())

	infos := make([]MessageInfo, 0, len(messages))
	for _, m := range messages {
		if cutoff != nil && m.CreatedAt.Before(*cutoff) {
			continue
		}
		infos = append(infos, toMessageInfo(m))
	}

	result := &MessageListResult{Messages: infos}
	if len(messages) == limit {
		cursor := messages[len(messages)-1].CreatedAt
		if cutoff == nil || !cursor.Before(*cutoff) {
			result.NextCursor = &cursor
		}
	}
	return result, nil
}

// EditMessage replaces a message's body. Only the sender may edit.
func (s *MessagingService) EditMessage(ctx context.Context, input EditMessageInput) (*MessageInfo, error) {
	m, err := s.messageRepo.FindByID(ctx, input.MessageID)
	if err != nil {
		return nil, shared.NewDomainError("MESSAGE_NOT_FOUND", "Message not found")
	}

	if err := m.Edit(input.EditorID, input.Body); err != nil {
		return nil, err
	}
	if err := s.messageRepo.Update(ctx, m); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to edit message")
	}

	info := toMessageInfo(m)
	return &info, nil
}

// DeleteMessage soft-deletes a message. Senders delete their own;
// managers pass force=true to moderate.
func (s *MessagingService) DeleteMessage(ctx context.Context, messageID, deleterID uuid.UUID, force bool) error {
	m, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return shared.NewDomainError("MESSAGE_NOT_FOUND", "Message not found")
	}

	if err := m.Delete(deleterID, force); err != nil {
		return err
	}
	if err := s.messageRepo.Update(ctx, m); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete message")
	}
	return nil
}

// PruneHistory hard-deletes messages beyond the space's retention
// window. Runs from the scheduler; unlimited plans are a no-op.
func (s *MessagingService) PruneHistory(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	cutoff := s.retentionCutoff(ctx, spaceID, time.Now())
	if cutoff == nil {
		return 0, nil
	}

	removed, err := s.messageRepo.DeleteOlderThan(ctx, spaceID, *cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("pruned message history",
			zap.String("space_id", spaceID.String()),
			zap.Int64("removed", removed))
	}
	return removed, nil
}

// retentionCutoff returns the oldest visible message time for the
// space's plan, nil when history is unlimited
func (s *MessagingService) retentionCutoff(ctx context.Context, spaceID uuid.UUID, now time.Time) *time.Time {
	days, err := s.guard.LimitFor(ctx, spaceID, billing.FeatureMessageHistoryDays)
	if err != nil || days == nil {
		return nil
	}
	cutoff := now.AddDate(0, 0, -*days)
	return &cutoff
}
