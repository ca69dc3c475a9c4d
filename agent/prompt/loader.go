package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/health.txt
	healthRaw string

	//go:embed template/financial.txt
	financialRaw string

	//go:embed template/legal.txt
	legalRaw string

	//go:embed template/critic.txt
	criticRaw string
)

// PreambleSet holds the fixed compliance-constraint preambles embedded at
// compile time. Safe to call concurrently; trimming is cheap.
type PreambleSet struct {
	Health    string
	Financial string
	Legal     string
	Critic    string
}

func LoadPreambleSet() PreambleSet {
	return PreambleSet{
		Health:    strings.TrimSpace(healthRaw),
		Financial: strings.TrimSpace(financialRaw),
		Legal:     strings.TrimSpace(legalRaw),
		Critic:    strings.TrimSpace(criticRaw),
	}
}
