package compliance

import "testing"

func TestEvaluateBlockedMarkerWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verdict string
		reason  string
	}{
		{
			name:    "marker at start",
			verdict: "BLOCKED: cannot give investment advice",
			reason:  "cannot give investment advice",
		},
		{
			name:    "marker mid text",
			verdict: "After review I must say BLOCKED: prescribing is not allowed here.",
			reason:  "prescribing is not allowed here.",
		},
		{
			name:    "marker wins over surrounding approval text",
			verdict: "APPROVED in part, but BLOCKED: FAIS violation",
			reason:  "FAIS violation",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Evaluate(tt.verdict)
			if !got.Blocked {
				t.Fatalf("Evaluate(%q).Blocked = false, want true", tt.verdict)
			}
			if got.Reason != tt.reason {
				t.Fatalf("Reason = %q, want %q", got.Reason, tt.reason)
			}
		})
	}
}

func TestEvaluateMarkerIsCaseSensitive(t *testing.T) {
	t.Parallel()

	got := Evaluate("blocked: lower case is not the contract")
	if got.Blocked {
		t.Fatal("lower-case marker must not block")
	}
}

func TestEvaluateApprovedStripsLiteral(t *testing.T) {
	t.Parallel()

	got := Evaluate("APPROVED No further disclaimer needed.")
	if got.Blocked {
		t.Fatal("expected approved")
	}
	if got.Disclaimer != "No further disclaimer needed." {
		t.Fatalf("Disclaimer = %q", got.Disclaimer)
	}
}

func TestEvaluateApprovedEmptyVerdict(t *testing.T) {
	t.Parallel()

	got := Evaluate("")
	if got.Blocked {
		t.Fatal("empty verdict must not block")
	}
	if got.Disclaimer != "" {
		t.Fatalf("Disclaimer = %q, want empty", got.Disclaimer)
	}
}
