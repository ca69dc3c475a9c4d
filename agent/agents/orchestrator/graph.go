package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/zulls123/greencare/agent/nodes"
)

// compileProcessGraph wires the pipeline as a linear node chain. The blocked
// short-circuit is carried in graph state: critic and persist nodes no-op
// once the legal gate has blocked. Legal only starts after the specialist
// join, critic only after legal settles.
func (o *Orchestrator) compileProcessGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RetrieveContext(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve_context: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_specialists",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchSpecialists(ctx, in, o.gateway, o.preambles)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_specialists: %w", err)
	}

	if err := graph.AddLambdaNode("legal_review",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LegalReview(ctx, in, o.gateway, o.preambles)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node legal_review: %w", err)
	}

	if err := graph.AddLambdaNode("critic_pass",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CriticPass(ctx, in, o.gateway, o.preambles)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node critic_pass: %w", err)
	}

	if err := graph.AddLambdaNode("persist_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PersistReply(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_reply: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_outcome",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeOutcome(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_outcome: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "retrieve_context"},
		{"retrieve_context", "dispatch_specialists"},
		{"dispatch_specialists", "legal_review"},
		{"legal_review", "critic_pass"},
		{"critic_pass", "persist_reply"},
		{"persist_reply", "finalize_outcome"},
		{"finalize_outcome", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.process_request"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
