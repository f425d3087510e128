// Package enrich fills missing firmographic fields on a lead, either from
// static derivation (mock) or an external lookup service (clearbit).
// Enrichment is best-effort: a provider failure means the lead passes
// through unchanged for this stage.
package enrich

import (
	"context"
	"strings"

	"leadflow-engine/internal/domain"
)

type Provider interface {
	Name() string
	Enrich(ctx context.Context, lead domain.Lead) (domain.Lead, error)
}

// New selects the enrichment provider. Clearbit requires a credential;
// anything else (including an unrecognized name) resolves to mock.
func New(provider, apiKey string) Provider {
	if strings.EqualFold(provider, "clearbit") && apiKey != "" {
		return NewClearbit(apiKey)
	}
	return Mock{}
}

// orDefault keeps an already-present value, otherwise takes the fallback.
func orDefault(val, fallback string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}
