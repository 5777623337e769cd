package assistant

import (
	"context"
	"errors"

	"github.com/homehub/backend/internal/domain/assistant"
)

// ErrAssistantDisabled is returned by the disabled completer for every call.
var ErrAssistantDisabled = errors.New("assistant: chat model is not configured")

// DisabledCompleter stands in when no model API is configured. Chat
// requests fail cleanly instead of hanging on a missing backend.
type DisabledCompleter struct{}

// NewDisabledCompleter creates a new disabled completer
func NewDisabledCompleter() *DisabledCompleter {
	return &DisabledCompleter{}
}

// Ensure DisabledCompleter implements ChatCompleter
var _ assistant.ChatCompleter = (*DisabledCompleter)(nil)

// Complete always fails; enable and configure the assistant to use it
func (c *DisabledCompleter) Complete(ctx context.Context, prompts []assistant.Prompt) (*assistant.Completion, error) {
	return nil, ErrAssistantDisabled
}
