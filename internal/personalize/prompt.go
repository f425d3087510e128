package personalize

import (
	"fmt"
	"strings"

	"leadflow-engine/internal/domain"
)

// buildPrompt embeds only the lead's own fields. The constraints against
// invented facts and implied browsing are part of the prompt contract and
// must stay intact.
func buildPrompt(lead domain.Lead) string {
	field := func(s string) string {
		if v := clean(s); v != "" {
			return v
		}
		return "Unknown"
	}
	employees := "Unknown"
	if lead.HasEmployees() && lead.EmployeeCount() > 0 {
		employees = fmt.Sprintf("%d", lead.EmployeeCount())
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are an expert B2B GTM copywriter. Write a safe, non-creepy, high-converting outbound email personalization.

Context (only use this info; do NOT invent facts or claim you browsed):
- Prospect name: %s
- Prospect title: %s
- Company: %s
- Industry: %s
- Company size (employees): %s
- Observed intent signal: %s

Task:
Return a JSON object with keys:
- subject: string (<= 7 words)
- first_line: string (1 sentence, personalized but not creepy)
- cta: string (1 sentence, low-friction ask)
- body: string (<= 90 words total, including first_line + 1-2 value points + cta; professional, direct)
- confidence: number between 0 and 1 (how confident you are given limited data)
- notes: string (1 sentence explaining what you used)

Constraints:
- Do NOT mention tracking, surveillance, or that you saw their activity.
- Do NOT invent company facts (no funding, tech stack, recent news, etc.).
- Keep tone: concise, technical, respectful.
- Value prop: "We help GTM teams automate enrichment, scoring, routing, and AI personalization to increase qualified pipeline."
`,
		field(lead.Name),
		field(lead.Title),
		field(lead.Company),
		field(lead.Industry),
		employees,
		field(lead.IntentSignal),
	))
}
