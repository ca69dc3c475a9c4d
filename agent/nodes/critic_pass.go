package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/zulls123/greencare/agent/contract"
	promptx "github.com/zulls123/greencare/agent/prompt"
)

// CriticPass runs only when the legal gate approved. The critic's returned
// text is the final content, used verbatim.
func CriticPass(ctx context.Context, in *GraphState, gw contractx.Gateway, preambles promptx.PreambleSet) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Blocked {
		return in, nil
	}

	criticPrompt := promptx.BuildCriticPrompt(
		preambles,
		in.Message,
		in.HealthReply,
		in.FinancialReply,
		in.Verdict.Disclaimer,
	)

	res := gw.SubmitAndAwait(ctx, contractx.AgentTypeCritic,
		[]contractx.Turn{{Role: "user", Content: criticPrompt}}, in.SessionID)

	in.FinalContent = res.AsText()
	return in, nil
}
