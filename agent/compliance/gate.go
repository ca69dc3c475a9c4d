// Package compliance turns the legal agent's free-text verdict into a
// structured block/approve decision. The marker convention lives only here so
// it can be swapped for a structured contract without touching the pipeline.
package compliance

import "strings"

// BlockedMarker is the literal, case-sensitive substring that makes a verdict
// authoritative regardless of any surrounding text. It matches the upstream
// agent contract exactly; do not infer intent beyond its presence.
const BlockedMarker = "BLOCKED:"

const approvedLiteral = "APPROVED"

// Decision is the gate's structured output. Exactly one decision gates one
// critic invocation per user request.
type Decision struct {
	Blocked    bool
	Reason     string
	Disclaimer string
}

// Evaluate parses the legal agent's free-text verdict. Presence of the
// BLOCKED: marker anywhere wins; otherwise the verdict is approved and the
// APPROVED literal is stripped from the disclaimer text.
func Evaluate(verdict string) Decision {
	if idx := strings.Index(verdict, BlockedMarker); idx >= 0 {
		return Decision{
			Blocked: true,
			Reason:  strings.TrimSpace(verdict[idx+len(BlockedMarker):]),
		}
	}
	return Decision{
		Disclaimer: strings.TrimSpace(strings.ReplaceAll(verdict, approvedLiteral, "")),
	}
}
