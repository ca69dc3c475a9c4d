package prompt

import (
	"strings"
	"testing"
	"time"

	profilex "github.com/zulls123/greencare/agent/profile"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func fullSnapshot() *profilex.Snapshot {
	dob := time.Date(1988, time.June, 2, 0, 0, 0, 0, time.UTC)
	return &profilex.Snapshot{
		UserID:      7,
		FirstName:   "Thandi",
		LastName:    "Nkosi",
		DateOfBirth: &dob,
		Gender:      "Female",
		City:        "Durban",
		Province:    "KwaZulu-Natal",
		Country:     "South Africa",
		MedicalAid: &profilex.MedicalAid{
			SchemeName:       "Discovery Health",
			PlanType:         "Classic Saver",
			MembershipNumber: "DH-123456",
		},
		Conditions: []profilex.Condition{
			{Name: "Asthma", Status: profilex.ConditionActive},
			{Name: "Tonsillitis", Status: "Resolved"},
		},
		Medications: []profilex.Medication{
			{Name: "Salbutamol", Dosage: "100mcg"},
		},
		Allergies: []profilex.Allergy{
			{Allergen: "Penicillin", Severity: "Severe"},
		},
		Accounts: []profilex.Account{
			{Currency: "ZAR", MonthlyIncome: 28500, MonthlyBudget: 21000.50},
		},
		Preferences: profilex.DefaultPreferences(),
	}
}

func TestBuildContextBlockDeterministic(t *testing.T) {
	t.Parallel()

	snap := fullSnapshot()
	first := BuildContextBlock(snap, testNow)
	second := BuildContextBlock(snap, testNow)
	if first != second {
		t.Fatal("context block is not deterministic for an identical snapshot")
	}
}

func TestBuildContextBlockContent(t *testing.T) {
	t.Parallel()

	block := BuildContextBlock(fullSnapshot(), testNow)

	for _, want := range []string{
		"User: Thandi Nkosi",
		"Age: 37",
		"Gender: Female",
		"Location: Durban, KwaZulu-Natal, South Africa",
		"Medical Aid: Discovery Health (Classic Saver)",
		"Membership: DH-123456",
		"Active Conditions: Asthma",
		"Current Medications: Salbutamol (100mcg)",
		"Allergies: Penicillin (Severe)",
		"Monthly Income: ZAR 28,500.00",
		"Monthly Budget: ZAR 21,000.50",
	} {
		if !strings.Contains(block, want) {
			t.Fatalf("context block missing %q:\n%s", want, block)
		}
	}

	if strings.Contains(block, "Tonsillitis") {
		t.Fatal("resolved conditions must not appear in the context block")
	}
}

func TestBuildContextBlockOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	snap := &profilex.Snapshot{
		UserID:      3,
		FirstName:   "Sipho",
		LastName:    "Dlamini",
		Country:     "South Africa",
		Preferences: profilex.DefaultPreferences(),
	}
	block := BuildContextBlock(snap, testNow)

	for _, banned := range []string{"Age:", "Gender:", "Location:", "Medical Aid:", "Active Conditions:", "Current Medications:", "Allergies:", "Monthly Income:", "None"} {
		if strings.Contains(block, banned) {
			t.Fatalf("context block must omit absent field %q:\n%s", banned, block)
		}
	}
	if !strings.Contains(block, "User: Sipho Dlamini") {
		t.Fatalf("context block missing identity line:\n%s", block)
	}
}

func TestBuildSpecialistPromptsEmbedPreambleContextAndUtterance(t *testing.T) {
	t.Parallel()

	preambles := LoadPreambleSet()
	block := BuildContextBlock(fullSnapshot(), testNow)

	health := BuildHealthPrompt(preambles, block, "How can I sleep better?")
	if !strings.Contains(health, "You CANNOT diagnose conditions") {
		t.Fatal("health prompt missing compliance preamble")
	}
	if !strings.Contains(health, block) || !strings.Contains(health, "How can I sleep better?") {
		t.Fatal("health prompt missing context block or utterance")
	}
	if strings.Index(health, preambles.Health) > strings.Index(health, block) {
		t.Fatal("preamble must precede the context block")
	}

	financial := BuildFinancialPrompt(preambles, block, "How can I save money this month?")
	if !strings.Contains(financial, "NOT a registered financial services provider under FAIS") {
		t.Fatal("financial prompt missing compliance preamble")
	}
	if !strings.Contains(financial, "How can I save money this month?") {
		t.Fatal("financial prompt missing utterance")
	}
}

func TestBuildLegalReviewPrompt(t *testing.T) {
	t.Parallel()

	preambles := LoadPreambleSet()
	got := BuildLegalReviewPrompt(preambles, "Can I stop my meds?", "health says X", "money says Y", "User is 37 years old in KwaZulu-Natal, South Africa.")

	for _, want := range []string{
		"HEALTH AGENT OUTPUT:\nhealth says X",
		"FINANCIAL AGENT OUTPUT:\nmoney says Y",
		"USER PROMPT: Can I stop my meds?",
		`"BLOCKED: [specific violation]"`,
		`"APPROVED" followed by any required disclaimers`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("legal review prompt missing %q", want)
		}
	}
}

func TestBuildCriticPrompt(t *testing.T) {
	t.Parallel()

	preambles := LoadPreambleSet()
	got := BuildCriticPrompt(preambles, "save money", "health text", "financial text", "keep the standard disclaimer")

	for _, want := range []string{
		"Germanic root equivalents",
		"ORIGINAL USER PROMPT:\nsave money",
		"LEGAL DISCLAIMER:\nkeep the standard disclaimer",
		"Output only the final, approved response",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("critic prompt missing %q", want)
		}
	}
}

func TestSummarizeSnapshot(t *testing.T) {
	t.Parallel()

	got := SummarizeSnapshot(fullSnapshot(), testNow)
	want := "User is 37 years old in KwaZulu-Natal, South Africa. Has medical history on file. Has medical aid coverage."
	if got != want {
		t.Fatalf("SummarizeSnapshot() = %q, want %q", got, want)
	}

	bare := &profilex.Snapshot{FirstName: "A", LastName: "B", Province: "Gauteng"}
	if got := SummarizeSnapshot(bare, testNow); got != "User is unknown years old in Gauteng, South Africa." {
		t.Fatalf("SummarizeSnapshot(bare) = %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{950.5, "950.50"},
		{28500, "28,500.00"},
		{1234567.89, "1,234,567.89"},
		{-4200, "-4,200.00"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Fatalf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
