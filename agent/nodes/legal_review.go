package pipelinenode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	compliancex "github.com/zulls123/greencare/agent/compliance"
	contractx "github.com/zulls123/greencare/agent/contract"
	promptx "github.com/zulls123/greencare/agent/prompt"
)

// LegalReview runs strictly after both specialists settle: it hands their
// combined outputs to the legal agent and applies the compliance gate to the
// verdict. A blocked verdict short-circuits the rest of the pipeline.
func LegalReview(ctx context.Context, in *GraphState, gw contractx.Gateway, preambles promptx.PreambleSet) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reviewPrompt := promptx.BuildLegalReviewPrompt(
		preambles,
		in.Message,
		in.HealthReply,
		in.FinancialReply,
		promptx.SummarizeSnapshot(in.Snapshot, in.Now),
	)

	res := gw.SubmitAndAwait(ctx, contractx.AgentTypeLegal,
		[]contractx.Turn{{Role: "user", Content: reviewPrompt}}, in.SessionID)

	in.Verdict = compliancex.Evaluate(res.AsText())
	in.Blocked = in.Verdict.Blocked
	if in.Blocked {
		log.Info().
			Int64("user_id", in.UserID).
			Str("session_id", in.SessionID).
			Str("reason", in.Verdict.Reason).
			Msg("legal agent blocked response")
	}
	return in, nil
}
