package pipelinenode

import (
	"errors"
	"strings"
	"time"

	compliancex "github.com/zulls123/greencare/agent/compliance"
	contractx "github.com/zulls123/greencare/agent/contract"
	profilex "github.com/zulls123/greencare/agent/profile"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidUser    = errors.New("user id is invalid")
)

// RefusalMessage is the fixed, non-technical text returned when the legal
// agent blocks a response. Raw verdict detail is never shown to the user.
const RefusalMessage = "I am not permitted to provide that information or recommendation under South African law."

// OrchestratorAgentType labels persisted assistant turns produced by the
// full pipeline rather than a single agent.
const OrchestratorAgentType = "Orchestrator"

// ProcessedByAgents lists the display names reported in success metadata.
var ProcessedByAgents = []string{
	"Health Agent",
	"Financial Agent",
	"Legal Compliance Agent",
	"Language Critic Agent",
}

type GraphInput struct {
	UserID    int64
	Message   string
	SessionID string
}

type GraphOutput struct {
	Outcome contractx.PipelineOutcome
}

// GraphState flows through the linear pipeline graph. One request owns one
// state; nothing is shared across concurrent requests.
type GraphState struct {
	UserID    int64
	Message   string
	SessionID string
	Now       time.Time

	Snapshot     *profilex.Snapshot
	ContextBlock string

	HealthReply    string
	FinancialReply string

	Verdict compliancex.Decision
	Blocked bool

	FinalContent string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	if in.UserID <= 0 {
		return nil, ErrInvalidUser
	}
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		UserID:    in.UserID,
		Message:   message,
		SessionID: sessionID,
		Now:       nowFn().UTC(),
	}, nil
}
