// Package personalize produces the outbound-email draft for a lead,
// either from a deterministic template or a generative provider. The
// generative path is guaranteed to fall back to the template on any
// documented failure, so personalization never aborts a batch.
package personalize

import (
	"context"
	"strings"

	"leadflow-engine/internal/domain"
)

type Personalizer interface {
	Name() string
	Personalize(ctx context.Context, lead domain.Lead) domain.Personalization
}

// For selects the personalizer. Dispatch is case-insensitive; an
// unrecognized provider name or a missing credential resolves to the
// template, never an error.
func For(provider, apiKey, model string) Personalizer {
	if strings.EqualFold(strings.TrimSpace(provider), "openai") && apiKey != "" {
		return NewOpenAI(apiKey, model)
	}
	return Template{}
}

// clean collapses runs of whitespace and trims. Field values go through
// it before being embedded in prompts or template strings.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
