// Package gateway adapts the Ark client to the pipeline's Gateway port,
// mapping logical agent types to their deployed Ark agent names.
package gateway

import (
	"context"
	"strings"

	contractx "github.com/zulls123/greencare/agent/contract"
	arkx "github.com/zulls123/greencare/pkg/ark"
)

type Config struct {
	Health    string `envconfig:"HEALTH" split_words:"true" default:"health-companion-agent"`
	Financial string `envconfig:"FINANCIAL" split_words:"true" default:"financial-coach-agent"`
	Legal     string `envconfig:"LEGAL" split_words:"true" default:"legal-compliance-agent"`
	Critic    string `envconfig:"CRITIC" split_words:"true" default:"language-critic-agent"`
}

type ArkGateway struct {
	client  *arkx.Client
	targets map[contractx.AgentType]string
}

var _ contractx.Gateway = (*ArkGateway)(nil)

func New(client *arkx.Client, cfg Config) *ArkGateway {
	return &ArkGateway{
		client: client,
		targets: map[contractx.AgentType]string{
			contractx.AgentTypeHealth:    strings.TrimSpace(cfg.Health),
			contractx.AgentTypeFinancial: strings.TrimSpace(cfg.Financial),
			contractx.AgentTypeLegal:     strings.TrimSpace(cfg.Legal),
			contractx.AgentTypeCritic:    strings.TrimSpace(cfg.Critic),
		},
	}
}

func (g *ArkGateway) SubmitAndAwait(ctx context.Context, agent contractx.AgentType, turns []contractx.Turn, sessionID string) contractx.AgentResult {
	target := g.targets[agent]
	if target == "" {
		return contractx.FailedResult(contractx.FailureGatewayRejected, "unknown agent type: "+string(agent))
	}

	input := make([]arkx.Turn, 0, len(turns))
	for _, t := range turns {
		input = append(input, arkx.Turn{Role: t.Role, Content: t.Content})
	}

	res := g.client.SubmitAndAwait(ctx, target, input, sessionID)
	switch res.Kind {
	case arkx.ResultText:
		return contractx.TextResult(res.Text)
	case arkx.ResultTimedOut:
		return contractx.TimedOutResult()
	default:
		return contractx.FailedResult(mapFailure(res.Failure), res.Reason)
	}
}

func mapFailure(kind arkx.FailureKind) contractx.FailureKind {
	switch kind {
	case arkx.FailureGatewayRejected:
		return contractx.FailureGatewayRejected
	case arkx.FailureConnection:
		return contractx.FailureConnection
	default:
		return contractx.FailureAgentFailed
	}
}
