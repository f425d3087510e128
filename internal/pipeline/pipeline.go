// Package pipeline runs the per-lead pass: enrich, score, bucket, route,
// personalize, notify. Records are independent; a bad record never aborts
// the batch.
package pipeline

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
	"leadflow-engine/internal/enrich"
	"leadflow-engine/internal/notify"
	"leadflow-engine/internal/personalize"
	"leadflow-engine/internal/rank"
	"leadflow-engine/internal/route"
)

type Deps struct {
	Cfg          config.Config
	Enricher     enrich.Provider
	Discoverer   *enrich.Discoverer // optional
	Scorer       rank.Scorer
	Personalizer personalize.Personalizer

	// OnScored fires after a lead is fully processed (serve mode uses it
	// to publish SSE events). May be nil.
	OnScored func(domain.Lead)
}

// Run processes every lead and returns the results in input order plus
// any notification errors. Notification is best-effort side channel: the
// errors are surfaced to the caller, the batch itself always completes.
func Run(ctx context.Context, deps Deps, leads []domain.Lead) ([]domain.Lead, []error) {
	workers := deps.Cfg.Pipeline.Workers
	if workers < 1 {
		workers = 1
	}

	out := make([]domain.Lead, len(leads))
	notifyErrs := make([]error, len(leads))

	if workers == 1 {
		for i, lead := range leads {
			out[i], notifyErrs[i] = processOne(ctx, deps, lead)
		}
	} else {
		// Batch-level parallelism only: per-record field semantics and
		// reason ordering are identical to the sequential path, and the
		// result slice keeps input order.
		var g errgroup.Group
		g.SetLimit(workers)
		for i, lead := range leads {
			g.Go(func() error {
				out[i], notifyErrs[i] = processOne(ctx, deps, lead)
				return nil
			})
		}
		_ = g.Wait()
	}

	var errs []error
	for _, err := range notifyErrs {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errs
}

func processOne(ctx context.Context, deps Deps, lead domain.Lead) (domain.Lead, error) {
	if deps.Discoverer != nil {
		lead = deps.Discoverer.Fill(ctx, lead)
	}

	enriched, err := deps.Enricher.Enrich(ctx, lead)
	if err != nil {
		// Pass through unenriched for this stage; no retry.
		log.Printf("[enrich:%s] error, passing through: %v", deps.Enricher.Name(), err)
		enriched = lead
	}
	lead = enriched

	score, reasons := deps.Scorer.Score(lead)
	lead.Score = score
	lead.ScoreReasons = reasons
	lead.Priority = rank.Bucket(score)
	lead.Owner = route.Owner(lead, deps.Cfg)

	p := deps.Personalizer.Personalize(ctx, lead)
	lead.AISubject = p.Subject
	lead.AIFirstLine = p.FirstLine
	lead.AICTA = p.CTA
	lead.AIBody = p.Body
	lead.AIConfidence = p.Confidence
	lead.AINotes = p.Notes

	var notifyErr error
	if deps.Cfg.Notify.WebhookURL != "" && (lead.Priority == rank.PriorityP0 || lead.Priority == rank.PriorityP1) {
		notifyErr = notify.Post(ctx, deps.Cfg.Notify.WebhookURL, notify.Payload(lead))
		if notifyErr != nil {
			log.Printf("[notify] error for %s: %v", lead.Email, notifyErr)
		}
	}

	if deps.OnScored != nil {
		deps.OnScored(lead)
	}
	return lead, notifyErr
}
