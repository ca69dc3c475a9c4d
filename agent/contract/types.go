package contract

import (
	"strings"
	"time"
)

type AgentType string

const (
	AgentTypeHealth    AgentType = "health"
	AgentTypeFinancial AgentType = "financial"
	AgentTypeLegal     AgentType = "legal"
	AgentTypeCritic    AgentType = "critic"
)

// Turn is one role/content exchange sent to or received from an agent.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResultKind string

const (
	ResultText     ResultKind = "text"
	ResultBlocked  ResultKind = "blocked"
	ResultFailed   ResultKind = "failed"
	ResultTimedOut ResultKind = "timed_out"
)

type FailureKind string

const (
	FailureGatewayRejected FailureKind = "gateway_rejected"
	FailureAgentFailed     FailureKind = "agent_failed"
	FailureConnection      FailureKind = "connection_error"
)

// AgentResult is the settled outcome of one gateway query. It is consumed
// immediately by the pipeline step that issued the call and never persisted.
type AgentResult struct {
	Kind    ResultKind
	Text    string
	Reason  string
	Failure FailureKind
}

func TextResult(text string) AgentResult {
	return AgentResult{Kind: ResultText, Text: text}
}

func BlockedResult(reason string) AgentResult {
	return AgentResult{Kind: ResultBlocked, Reason: reason}
}

func FailedResult(failure FailureKind, reason string) AgentResult {
	return AgentResult{Kind: ResultFailed, Failure: failure, Reason: reason}
}

func TimedOutResult() AgentResult {
	return AgentResult{Kind: ResultTimedOut}
}

// AsText renders the result the way it is threaded into downstream prompts.
// Failures become visible error text rather than aborting the pipeline, so
// the legal agent can still review whatever was produced.
func (r AgentResult) AsText() string {
	switch r.Kind {
	case ResultText:
		return strings.TrimSpace(r.Text)
	case ResultBlocked:
		return "Blocked: " + r.Reason
	case ResultTimedOut:
		return "Agent timeout - please try again."
	case ResultFailed:
		switch r.Failure {
		case FailureGatewayRejected:
			return "Error creating query: " + r.Reason
		case FailureConnection:
			return "Connection error: " + r.Reason
		default:
			return "Agent failed to process request."
		}
	default:
		return ""
	}
}

type PipelineStatus string

const (
	StatusSuccess PipelineStatus = "success"
	StatusBlocked PipelineStatus = "blocked"
	StatusError   PipelineStatus = "error"
)

// PipelineOutcome is the orchestrator's terminal result, returned to the
// caller as-is. Nothing downstream depends on it.
type PipelineOutcome struct {
	Status   PipelineStatus   `json:"status"`
	Content  string           `json:"content,omitempty"`
	Message  string           `json:"message,omitempty"`
	Metadata *OutcomeMetadata `json:"metadata,omitempty"`
}

type OutcomeMetadata struct {
	ProcessedBy []string  `json:"processed_by"`
	Timestamp   time.Time `json:"timestamp"`
}
