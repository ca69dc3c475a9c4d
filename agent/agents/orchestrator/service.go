// Package orchestrator drives the fixed advisory pipeline: context retrieval,
// concurrent specialist dispatch, legal compliance gating, the critic rewrite
// pass, and persistence of the final reply.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/zulls123/greencare/agent/contract"
	nodex "github.com/zulls123/greencare/agent/nodes"
	profilex "github.com/zulls123/greencare/agent/profile"
	promptx "github.com/zulls123/greencare/agent/prompt"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
	ErrInvalidUser    = nodex.ErrInvalidUser
)

// contextUnavailableMessage is the generic retry prompt shown when no user
// record can be retrieved. Internal detail never reaches the caller.
const contextUnavailableMessage = "Unable to retrieve user information. Please try again."

type Orchestrator struct {
	store     profilex.Store
	gateway   contractx.Gateway
	preambles promptx.PreambleSet

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(store profilex.Store, gw contractx.Gateway) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("profile store is required")
	}
	if gw == nil {
		return nil, errors.New("agent gateway is required")
	}

	o := &Orchestrator{
		store:     store,
		gateway:   gw,
		preambles: promptx.LoadPreambleSet(),
		now:       time.Now,
	}

	graphRunner, err := o.compileProcessGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Process runs one user utterance through the full pipeline and returns the
// terminal outcome. A missing user record settles as an error outcome before
// any gateway call; invalid input is returned as an error for the caller to
// reject.
func (o *Orchestrator) Process(ctx context.Context, userID int64, message, sessionID string) (contractx.PipelineOutcome, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		UserID:    userID,
		Message:   message,
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrContextUnavailable) {
			log.Warn().Err(err).Int64("user_id", userID).Msg("context retrieval failed")
			return contractx.PipelineOutcome{
				Status:  contractx.StatusError,
				Message: contextUnavailableMessage,
			}, nil
		}
		return contractx.PipelineOutcome{}, err
	}
	return out.Outcome, nil
}
