package rank

import (
	"strings"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
)

// RuleScorer evaluates the configured ICP and intent rules against a lead.
// Pure and deterministic, no I/O. Reasons come out in evaluation order:
// employee range, industry, title, intent.
type RuleScorer struct {
	Cfg config.Config
}

func (s RuleScorer) Score(lead domain.Lead) (int, []string) {
	score := 0
	var reasons []string

	// Missing employee count counts as 0, which fails the range check.
	emp := lead.EmployeeCount()
	er := s.Cfg.Scoring.EmployeeRange
	if emp >= er.Min && emp <= er.Max {
		score += er.Weight
		reasons = append(reasons, er.Reason)
	}

	if matchesAny(lead.Industry, s.Cfg.Scoring.Industry.Any) {
		score += s.Cfg.Scoring.Industry.Weight
		reasons = append(reasons, s.Cfg.Scoring.Industry.Reason)
	}

	if matchesAny(lead.Title, s.Cfg.Scoring.Title.Any) {
		score += s.Cfg.Scoring.Title.Weight
		reasons = append(reasons, s.Cfg.Scoring.Title.Reason)
	}

	// The two intent rules are mutually exclusive; the strong-signal check
	// wins over the generic non-empty check.
	intent := strings.TrimSpace(lead.IntentSignal)
	switch {
	case matchesAny(intent, s.Cfg.Scoring.IntentStrong.Any):
		score += s.Cfg.Scoring.IntentStrong.Weight
		reasons = append(reasons, s.Cfg.Scoring.IntentStrong.Reason)
	case intent != "":
		score += s.Cfg.Scoring.IntentWeak.Weight
		reasons = append(reasons, s.Cfg.Scoring.IntentWeak.Reason)
	}

	return score, reasons
}

func matchesAny(text string, terms []string) bool {
	t := strings.ToLower(text)
	if t == "" {
		return false
	}
	for _, needle := range terms {
		n := strings.ToLower(strings.TrimSpace(needle))
		if n == "" {
			continue
		}
		if strings.Contains(t, n) {
			return true
		}
	}
	return false
}
