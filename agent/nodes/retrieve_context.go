package pipelinenode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/zulls123/greencare/agent/contract"
	profilex "github.com/zulls123/greencare/agent/profile"
	promptx "github.com/zulls123/greencare/agent/prompt"
)

// RetrieveContext fetches the immutable user-context snapshot and renders the
// shared context block. A missing user record aborts the pipeline before any
// gateway call is made.
func RetrieveContext(ctx context.Context, in *GraphState, store profilex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	snap, err := store.GetUserContextSnapshot(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, profilex.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user=%d", contractx.ErrContextUnavailable, in.UserID)
		}
		return nil, fmt.Errorf("%w: %v", contractx.ErrContextUnavailable, err)
	}

	in.Snapshot = snap
	in.ContextBlock = promptx.BuildContextBlock(snap, in.Now)
	return in, nil
}
