package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/assistant"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// How many prior turns are replayed to the model per prompt
const historyWindow = 20

// Titles derived from the first prompt are cut to this length
const titleLength = 60

const systemPrompt = "You are a friendly household companion. You help family " +
	"members organize chores, plan meals, and keep track of their home. " +
	"Keep answers short and practical."

// AssistantService runs member chats against the model API. Access and
// monthly message volume follow the space's plan.
type AssistantService struct {
	conversationRepo assistant.ConversationRepository
	messageRepo      assistant.ChatMessageRepository
	completer        assistant.ChatCompleter
	guard            *appbilling.FeatureGuard
	logger           *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	conversationRepo assistant.ConversationRepository,
	messageRepo assistant.ChatMessageRepository,
	completer assistant.ChatCompleter,
	guard *appbilling.FeatureGuard,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		completer:        completer,
		guard:            guard,
		logger:           logger,
	}
}

// Chat sends a member's prompt to the model and stores both turns.
// Nothing is persisted when the model call fails, so a retry replays
// the same prompt.
func (s *AssistantService) Chat(ctx context.Context, input ChatInput) (*ChatResult, error) {
	if err := s.guard.RequireFeature(ctx, input.SpaceID, billing.FeatureAssistant); err != nil {
		return nil, err
	}
	if err := s.checkMonthlyQuota(ctx, input.SpaceID, input.UserID); err != nil {
		return nil, err
	}

	conversation, created, err := s.resolveConversation(ctx, input)
	if err != nil {
		return nil, err
	}

	prompts := []assistant.Prompt{{Role: assistant.RoleSystem, Content: systemPrompt}}
	if !created {
		history, err := s.messageRepo.FindByConversation(ctx, conversation.ID, historyWindow)
		if err != nil {
			s.logger.Warn("failed to load conversation history",
				zap.String("conversation_id", conversation.ID.String()),
				zap.Error(err))
		}
		for _, m := range history {
			prompts = append(prompts, assistant.Prompt{Role: m.Role, Content: m.Content})
		}
	}
	prompts = append(prompts, assistant.Prompt{Role: assistant.RoleUser, Content: input.Message})

	completion, err := s.completer.Complete(ctx, prompts)
	if err != nil {
		s.logger.Error("model completion failed",
			zap.String("space_id", input.SpaceID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("ASSISTANT_UNAVAILABLE", "The assistant is unavailable right now")
	}

	userMsg, err := conversation.AppendMessage(assistant.RoleUser, input.Message, completion.PromptTokens)
	if err != nil {
		return nil, err
	}
	replyMsg, err := conversation.AppendMessage(assistant.RoleAssistant, completion.Content, completion.ReplyTokens)
	if err != nil {
		return nil, err
	}

	if created {
		err = s.conversationRepo.Create(ctx, conversation)
	} else {
		err = s.conversationRepo.Update(ctx, conversation)
	}
	if err != nil {
		s.logger.Error("failed to save conversation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save conversation")
	}
	if err := s.messageRepo.Create(ctx, userMsg, replyMsg); err != nil {
		s.logger.Error("failed to save chat messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save conversation")
	}

	return &ChatResult{
		ConversationID: conversation.ID,
		Reply:          completion.Content,
		TokensUsed:     completion.TotalTokens(),
	}, nil
}

// ListConversations returns a member's conversations, most recent first
func (s *AssistantService) ListConversations(ctx context.Context, spaceID, userID uuid.UUID, includeArchived bool) ([]ConversationInfo, error) {
	conversations, err := s.conversationRepo.FindByUser(ctx, spaceID, userID, includeArchived)
	if err != nil {
		s.logger.Error("failed to list conversations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list conversations")
	}

	infos := make([]ConversationInfo, 0, len(conversations))
	for _, c := range conversations {
		infos = append(infos, toConversationInfo(c))
	}
	return infos, nil
}

// GetConversation returns a conversation with its messages. Members only
// see their own threads.
func (s *AssistantService) GetConversation(ctx context.Context, conversationID, userID uuid.UUID) (*ConversationDetail, error) {
	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
	}
	if conversation.UserID != userID {
		return nil, shared.ErrForbidden
	}

	messages, err := s.messageRepo.FindByConversation(ctx, conversationID, 0)
	if err != nil {
		s.logger.Error("failed to load conversation messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load conversation")
	}

	infos := make([]ChatMessageInfo, 0, len(messages))
	for _, m := range messages {
		infos = append(infos, toChatMessageInfo(m))
	}

	return &ConversationDetail{
		Conversation: toConversationInfo(conversation),
		Messages:     infos,
	}, nil
}

// ArchiveConversation hides a conversation from the active list
func (s *AssistantService) ArchiveConversation(ctx context.Context, conversationID, userID uuid.UUID) error {
	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
	}
	if conversation.UserID != userID {
		return shared.ErrForbidden
	}

	conversation.Archive()
	if err := s.conversationRepo.Update(ctx, conversation); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to archive conversation")
	}
	return nil
}

// DeleteConversation deletes a conversation and its messages
func (s *AssistantService) DeleteConversation(ctx context.Context, conversationID, userID uuid.UUID) error {
	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
	}
	if conversation.UserID != userID {
		return shared.ErrForbidden
	}

	if err := s.conversationRepo.Delete(ctx, conversationID); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete conversation")
	}
	return nil
}

// checkMonthlyQuota enforces the plan's per-month prompt allowance for
// one member. The month boundary is calendar UTC.
func (s *AssistantService) checkMonthlyQuota(ctx context.Context, spaceID, userID uuid.UUID) error {
	limit, err := s.guard.LimitFor(ctx, spaceID, billing.FeatureAssistantMessages)
	if err != nil {
		s.logger.Warn("failed to resolve assistant message limit, allowing prompt",
			zap.String("space_id", spaceID.String()),
			zap.Error(err))
		return nil
	}
	if limit == nil {
		return nil
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	used, err := s.messageRepo.CountUserMessagesSince(ctx, spaceID, userID, monthStart)
	if err != nil {
		s.logger.Warn("failed to count assistant usage, allowing prompt",
			zap.String("space_id", spaceID.String()),
			zap.Error(err))
		return nil
	}
	if used >= int64(*limit) {
		return shared.ErrPlanLimitReached
	}
	return nil
}

// resolveConversation loads the target thread or starts a fresh one
// titled from the prompt
func (s *AssistantService) resolveConversation(ctx context.Context, input ChatInput) (*assistant.Conversation, bool, error) {
	if input.ConversationID != nil {
		conversation, err := s.conversationRepo.FindByID(ctx, *input.ConversationID)
		if err != nil {
			return nil, false, shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
		}
		if conversation.UserID != input.UserID || conversation.SpaceID != input.SpaceID {
			return nil, false, shared.ErrForbidden
		}
		return conversation, false, nil
	}

	title := input.Message
	if len(title) > titleLength {
		title = title[:titleLength]
	}
	conversation, err := assistant.NewConversation(input.SpaceID, input.UserID, title)
	if err != nil {
		return nil, false, err
	}
	return conversation, true, nil
}
