package contract

import "errors"

var (
	ErrGatewayRejected    = errors.New("gateway rejected query submit")
	ErrAgentFailed        = errors.New("agent failed or was cancelled")
	ErrAgentTimedOut      = errors.New("agent polling exhausted")
	ErrConnection         = errors.New("gateway connection failed")
	ErrContextUnavailable = errors.New("user context unavailable")
	ErrValidation         = errors.New("validation failed")
)
