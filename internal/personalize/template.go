package personalize

import (
	"context"

	"leadflow-engine/internal/domain"
)

const templateCTA = "Open to a 12-minute chat next week to see if this could help?"

const valueProp = "We help GTM teams automate enrichment, scoring, routing, and AI-driven personalization " +
	"so reps spend less time on ops and more time closing."

// Template builds a deterministic draft from the lead's own fields. It is
// the default when no generative credential is configured and the
// fallback for every generative-path failure.
type Template struct{}

func (Template) Name() string { return "template" }

func (Template) Personalize(_ context.Context, lead domain.Lead) domain.Personalization {
	name := clean(lead.Name)
	if name == "" {
		name = "there"
	}
	title := clean(lead.Title)
	if title == "" {
		title = "your team"
	}
	company := clean(lead.Company)
	if company == "" {
		company = "your company"
	}
	intent := clean(lead.IntentSignal)

	firstLine := "Hi " + name + " - saw you're leading " + title + " at " + company + "."
	if intent != "" {
		firstLine += " If you're exploring " + intent + ","
	}

	body := firstLine + "\n\n" + valueProp + "\n\n" + templateCTA

	return domain.Personalization{
		Subject:    "Automating your lead workflow",
		FirstLine:  firstLine,
		CTA:        templateCTA,
		Body:       body,
		Confidence: 0.55,
		Notes:      "Mock mode using provided title/company/intent signal only.",
	}
}
