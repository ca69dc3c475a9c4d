package pipelinenode

import (
	"fmt"
	"time"

	contractx "github.com/zulls123/greencare/agent/contract"
)

// FinalizeOutcome assembles the caller-facing pipeline outcome. Blocked
// requests get the fixed refusal message; approved requests get the critic's
// content verbatim plus processing metadata.
func FinalizeOutcome(in *GraphState, nowFn func() time.Time) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.Blocked {
		return GraphOutput{
			Outcome: contractx.PipelineOutcome{
				Status:  contractx.StatusBlocked,
				Message: RefusalMessage,
			},
		}, nil
	}

	return GraphOutput{
		Outcome: contractx.PipelineOutcome{
			Status:  contractx.StatusSuccess,
			Content: in.FinalContent,
			Metadata: &contractx.OutcomeMetadata{
				ProcessedBy: append([]string(nil), ProcessedByAgents...),
				Timestamp:   nowFn().UTC(),
			},
		},
	}, nil
}
