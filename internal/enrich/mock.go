package enrich

import (
	"context"
	"strings"
	"unicode"

	"leadflow-engine/internal/domain"
)

// Mock derives firmographics from the email domain so the pipeline runs
// without API keys. Deterministic: the same email always produces the
// same derived fields.
type Mock struct{}

func (Mock) Name() string { return "mock" }

func (Mock) Enrich(_ context.Context, lead domain.Lead) (domain.Lead, error) {
	dom := emailDomain(lead.Email)

	company := "Unknown"
	if dom != "" {
		company = titleCase(firstLabel(dom))
	}

	employees := 250
	if strings.Contains(dom, "studio") {
		employees = 50
	}

	industry := "Unknown"
	if dom != "" {
		industry = "B2B SaaS"
	}

	out := lead
	out.Company = orDefault(lead.Company, company)
	out.Domain = orDefault(lead.Domain, dom)
	if !lead.HasEmployees() {
		out.SetEmployees(employees)
	}
	out.Industry = orDefault(lead.Industry, industry)
	out.Country = orDefault(lead.Country, "US")
	return out, nil
}

func emailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return strings.ToLower(strings.TrimSpace(email))
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}

func firstLabel(dom string) string {
	if i := strings.Index(dom, "."); i >= 0 {
		return dom[:i]
	}
	return dom
}

// titleCase upper-cases the first letter of each alpha run ("acme-studio"
// becomes "Acme-Studio").
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
