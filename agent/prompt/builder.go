package prompt

import (
	"fmt"
	"strings"
	"time"

	profilex "github.com/zulls123/greencare/agent/profile"
)

// BuildContextBlock renders identity, medical, and financial facts into a
// deterministic ordered text block. Absent fields are omitted entirely so the
// same snapshot always yields byte-identical text.
func BuildContextBlock(snap *profilex.Snapshot, now time.Time) string {
	if snap == nil {
		return ""
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("User: %s %s", snap.FirstName, snap.LastName))
	if age := snap.Age(now); age >= 0 {
		parts = append(parts, fmt.Sprintf("Age: %d", age))
	}
	if snap.Gender != "" {
		parts = append(parts, "Gender: "+snap.Gender)
	}
	if snap.City != "" || snap.Province != "" {
		parts = append(parts, fmt.Sprintf("Location: %s, %s, %s", snap.City, snap.Province, snap.Country))
	}

	if aid := snap.MedicalAid; aid != nil {
		parts = append(parts, fmt.Sprintf("\nMedical Aid: %s (%s)", aid.SchemeName, aid.PlanType))
		if aid.MembershipNumber != "" {
			parts = append(parts, "Membership: "+aid.MembershipNumber)
		}
	}

	if active := snap.ActiveConditions(); len(active) > 0 {
		names := make([]string, 0, len(active))
		for _, c := range active {
			names = append(names, c.Name)
		}
		parts = append(parts, "Active Conditions: "+strings.Join(names, ", "))
	}

	if len(snap.Medications) > 0 {
		meds := make([]string, 0, len(snap.Medications))
		for _, m := range snap.Medications {
			meds = append(meds, fmt.Sprintf("%s (%s)", m.Name, m.Dosage))
		}
		parts = append(parts, "Current Medications: "+strings.Join(meds, ", "))
	}

	if len(snap.Allergies) > 0 {
		allergens := make([]string, 0, len(snap.Allergies))
		for _, a := range snap.Allergies {
			allergens = append(allergens, fmt.Sprintf("%s (%s)", a.Allergen, a.Severity))
		}
		parts = append(parts, "Allergies: "+strings.Join(allergens, ", "))
	}

	for _, acc := range snap.Accounts {
		if acc.MonthlyIncome > 0 {
			parts = append(parts, fmt.Sprintf("\nMonthly Income: %s %s", acc.Currency, formatAmount(acc.MonthlyIncome)))
		}
		if acc.MonthlyBudget > 0 {
			parts = append(parts, fmt.Sprintf("Monthly Budget: %s %s", acc.Currency, formatAmount(acc.MonthlyBudget)))
		}
	}

	return strings.Join(parts, "\n")
}

// formatAmount renders a monetary value with comma thousand separators and
// two decimals, matching the context blocks the agents were tuned on.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	neg := false
	if strings.HasPrefix(whole, "-") {
		neg = true
		whole = whole[1:]
	}

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// BuildHealthPrompt embeds the fixed health compliance preamble ahead of the
// context block and the raw user utterance.
func BuildHealthPrompt(preambles PreambleSet, contextBlock, utterance string) string {
	var b strings.Builder
	b.WriteString(preambles.Health)
	b.WriteString("\n\nUSER CONTEXT:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\nUSER QUERY:\n")
	b.WriteString(utterance)
	b.WriteString("\n\nProvide supportive, informational guidance while strictly adhering to legal constraints.")
	return b.String()
}

func BuildFinancialPrompt(preambles PreambleSet, contextBlock, utterance string) string {
	var b strings.Builder
	b.WriteString(preambles.Financial)
	b.WriteString("\n\nUSER CONTEXT:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\nUSER QUERY:\n")
	b.WriteString(utterance)
	b.WriteString("\n\nProvide educational financial guidance while strictly adhering to legal constraints.")
	return b.String()
}

// SummarizeSnapshot produces the compact user-data summary handed to the
// legal reviewer. Deliberately sparse; the reviewer sees full specialist
// outputs, not raw profile data.
func SummarizeSnapshot(snap *profilex.Snapshot, now time.Time) string {
	if snap == nil {
		return ""
	}

	age := "unknown"
	if a := snap.Age(now); a >= 0 {
		age = fmt.Sprintf("%d", a)
	}
	summary := fmt.Sprintf("User is %s years old in %s, South Africa.", age, snap.Province)

	if len(snap.Conditions) > 0 {
		summary += " Has medical history on file."
	}
	if snap.MedicalAid != nil {
		summary += " Has medical aid coverage."
	}
	return summary
}

// BuildLegalReviewPrompt embeds both specialist outputs plus the user-data
// summary and instructs the legal agent to answer with a literal BLOCKED:
// prefix or APPROVED plus optional disclaimer text.
func BuildLegalReviewPrompt(preambles PreambleSet, utterance, healthReply, financialReply, dataSummary string) string {
	var b strings.Builder
	b.WriteString(preambles.Legal)
	b.WriteString("\n\nReview the following outputs for legal compliance:\n")
	b.WriteString("\nUSER PROMPT: ")
	b.WriteString(utterance)
	b.WriteString("\n\nHEALTH AGENT OUTPUT:\n")
	b.WriteString(healthReply)
	b.WriteString("\n\nFINANCIAL AGENT OUTPUT:\n")
	b.WriteString(financialReply)
	b.WriteString("\n\nUSER DATA SUMMARY:\n")
	b.WriteString(dataSummary)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Identify any violations of South African medical or financial services law\n")
	b.WriteString("2. If violations exist, respond with: \"BLOCKED: [specific violation]\"\n")
	b.WriteString("3. If compliant, respond with: \"APPROVED\" followed by any required disclaimers\n")
	b.WriteString("4. Be strict - when in doubt, block it")
	return b.String()
}

// BuildCriticPrompt embeds both specialist outputs, the legal disclaimer, and
// the original utterance for the final rewrite pass.
func BuildCriticPrompt(preambles PreambleSet, utterance, healthReply, financialReply, disclaimer string) string {
	var b strings.Builder
	b.WriteString(preambles.Critic)
	b.WriteString("\n\nORIGINAL USER PROMPT:\n")
	b.WriteString(utterance)
	b.WriteString("\n\nHEALTH AGENT RESPONSE:\n")
	b.WriteString(healthReply)
	b.WriteString("\n\nFINANCIAL AGENT RESPONSE:\n")
	b.WriteString(financialReply)
	b.WriteString("\n\nLEGAL DISCLAIMER:\n")
	b.WriteString(disclaimer)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("Rewrite the combined response following the language requirements and content validation rules.\n")
	b.WriteString("Output only the final, approved response that will be shown to the user.")
	return b.String()
}
