package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homehub/backend/internal/domain/messaging"
	"github.com/homehub/backend/internal/domain/shared"
)

// chatFrame is the wire format pushed to connected members when a chat
// message lands.
type chatFrame struct {
	Type    string      `json:"type"`
	Message messageView `json:"message"`
}

type messageView struct {
	ID        uuid.UUID             `json:"id"`
	SenderID  uuid.UUID             `json:"sender_id"`
	Kind      messaging.MessageKind `json:"kind"`
	Body      string                `json:"body"`
	CreatedAt time.Time             `json:"created_at"`
}

// BroadcastHandler fans MessageSent events out to the space's live
// websocket connections. Delivery is best effort: members who are
// offline catch up through the message list endpoint.
type BroadcastHandler struct {
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcastHandler creates a new broadcast handler.
func NewBroadcastHandler(hub *Hub, logger *zap.Logger) *BroadcastHandler {
	return &BroadcastHandler{
		hub:    hub,
		logger: logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *BroadcastHandler) EventTypes() []string {
	return []string{messaging.EventTypeMessageSent}
}

// Handle pushes the message to connected members. Always returns nil.
func (h *BroadcastHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*messaging.MessageSentEvent)
	if !ok {
		h.logger.Warn("unexpected event type for broadcast handler",
			zap.String("event_type", event.EventType()))
		return nil
	}

	payload, err := json.Marshal(chatFrame{
		Type: "message",
		Message: messageView{
			ID:        e.AggregateID(),
			SenderID:  e.SenderID,
			Kind:      e.Kind,
			Body:      e.Body,
			CreatedAt: e.OccurredAt(),
		},
	})
	if err != nil {
		h.logger.Error("failed to encode chat frame", zap.Error(err))
		return nil
	}

	delivered := h.hub.Broadcast(e.SpaceID(), payload)
	h.logger.Debug("chat message broadcast",
		zap.String("space_id", e.SpaceID().String()),
		zap.Int("delivered", delivered))
	return nil
}

var _ shared.EventHandler = (*BroadcastHandler)(nil)
