package pipelinenode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/zulls123/greencare/agent/contract"
	profilex "github.com/zulls123/greencare/agent/profile"
)

// PersistReply appends the approved assistant turn to chat history. Nothing
// is persisted for blocked turns. A failed append loses this turn's message
// but does not fail the outcome; there is no transaction spanning the agent
// calls and the gap is accepted.
func PersistReply(ctx context.Context, in *GraphState, store profilex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Blocked {
		return in, nil
	}

	err := store.AppendChatMessage(ctx, &profilex.ChatMessage{
		UserID:    in.UserID,
		AgentType: OrchestratorAgentType,
		SessionID: in.SessionID,
		Role:      "assistant",
		Content:   in.FinalContent,
	})
	if err != nil {
		log.Warn().Err(err).
			Int64("user_id", in.UserID).
			Str("session_id", in.SessionID).
			Msg("failed to persist assistant message")
	}
	return in, nil
}
