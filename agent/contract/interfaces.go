package contract

import "context"

// Gateway resolves one logical agent invocation against the remote agent
// service. Implementations own target naming and the submit/poll protocol;
// the result is always settled, never an error, so failures can be threaded
// forward as text by the pipeline.
type Gateway interface {
	SubmitAndAwait(ctx context.Context, agent AgentType, turns []Turn, sessionID string) AgentResult
}
