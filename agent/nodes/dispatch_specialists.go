package pipelinenode

import (
	"context"
	"fmt"
	"sync"

	contractx "github.com/zulls123/greencare/agent/contract"
	promptx "github.com/zulls123/greencare/agent/prompt"
)

// DispatchSpecialists issues the health and financial queries concurrently
// and joins both before returning. Each call owns its own query and result;
// nothing crosses the join, so the WaitGroup is the only synchronization.
//
// Failed or timed-out results are deliberately threaded forward as text so
// the legal reviewer still sees whatever was produced. This is an inherited
// trade-off favoring pipeline completion over failure isolation.
func DispatchSpecialists(ctx context.Context, in *GraphState, gw contractx.Gateway, preambles promptx.PreambleSet) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	healthPrompt := promptx.BuildHealthPrompt(preambles, in.ContextBlock, in.Message)
	financialPrompt := promptx.BuildFinancialPrompt(preambles, in.ContextBlock, in.Message)

	var wg sync.WaitGroup
	var healthRes, financialRes contractx.AgentResult
	wg.Add(2)
	go func() {
		defer wg.Done()
		healthRes = gw.SubmitAndAwait(ctx, contractx.AgentTypeHealth,
			[]contractx.Turn{{Role: "user", Content: healthPrompt}}, in.SessionID)
	}()
	go func() {
		defer wg.Done()
		financialRes = gw.SubmitAndAwait(ctx, contractx.AgentTypeFinancial,
			[]contractx.Turn{{Role: "user", Content: financialPrompt}}, in.SessionID)
	}()
	wg.Wait()

	in.HealthReply = healthRes.AsText()
	in.FinancialReply = financialRes.AsText()
	return in, nil
}
