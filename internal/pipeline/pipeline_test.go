package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
	"leadflow-engine/internal/enrich"
	"leadflow-engine/internal/personalize"
	"leadflow-engine/internal/rank"
)

func testDeps() Deps {
	cfg := config.Default()
	return Deps{
		Cfg:          cfg,
		Enricher:     enrich.Mock{},
		Scorer:       rank.RuleScorer{Cfg: cfg},
		Personalizer: personalize.Template{},
	}
}

func hotLead() domain.Lead {
	lead := domain.Lead{
		Name:         "Ana",
		Email:        "ana@acme.io",
		Company:      "Acme",
		Industry:     "SaaS",
		Country:      "US",
		Title:        "VP Growth",
		IntentSignal: "pricing",
	}
	lead.SetEmployees(200)
	return lead
}

func coldLead() domain.Lead {
	lead := domain.Lead{
		Name:     "Cal",
		Email:    "cal@giant.example",
		Industry: "Retail",
		Country:  "BR",
	}
	lead.SetEmployees(5000)
	return lead
}

func TestRunEndToEnd(t *testing.T) {
	out, errs := Run(context.Background(), testDeps(), []domain.Lead{hotLead(), coldLead()})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(out) != 2 {
		t.Fatalf("out=%d, want 2", len(out))
	}

	ana := out[0]
	if ana.Score != 100 {
		t.Errorf("ana score=%d, want 100", ana.Score)
	}
	wantReasons := []string{"ICP employee range", "ICP industry match", "Senior buyer title", "High-intent signal"}
	if len(ana.ScoreReasons) != len(wantReasons) {
		t.Fatalf("ana reasons=%v", ana.ScoreReasons)
	}
	for i := range wantReasons {
		if ana.ScoreReasons[i] != wantReasons[i] {
			t.Errorf("ana reasons[%d]=%q, want %q", i, ana.ScoreReasons[i], wantReasons[i])
		}
	}
	if ana.Priority != rank.PriorityP0 {
		t.Errorf("ana priority=%s", ana.Priority)
	}
	if ana.Owner != "amer-smb@company.com" {
		t.Errorf("ana owner=%s", ana.Owner)
	}
	if ana.AIFirstLine == "" || ana.AIConfidence != 0.55 {
		t.Errorf("ana personalization missing: %+v", ana)
	}

	cal := out[1]
	if cal.Score != 0 || cal.Priority != rank.PriorityP2 {
		t.Errorf("cal score=%d priority=%s, want 0/P2", cal.Score, cal.Priority)
	}
	if cal.Owner != "row@company.com" {
		t.Errorf("cal owner=%s", cal.Owner)
	}
}

func TestRunNotifiesHighPriorityOnly(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	deps := testDeps()
	deps.Cfg.Notify.WebhookURL = srv.URL

	_, errs := Run(context.Background(), deps, []domain.Lead{hotLead(), coldLead()})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("webhook calls=%d, want 1 (P0 only)", got)
	}
}

func TestRunCollectsNotifyErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	deps := testDeps()
	deps.Cfg.Notify.WebhookURL = srv.URL

	out, errs := Run(context.Background(), deps, []domain.Lead{hotLead(), coldLead()})
	if len(out) != 2 {
		t.Fatalf("a failed notification must not drop leads, out=%d", len(out))
	}
	if len(errs) != 1 {
		t.Fatalf("errs=%v, want one per failed notification", errs)
	}
	if out[0].Score != 100 {
		t.Error("lead must be fully processed even when its notification fails")
	}
}

type failingEnricher struct{}

func (failingEnricher) Name() string { return "failing" }
func (failingEnricher) Enrich(_ context.Context, _ domain.Lead) (domain.Lead, error) {
	return domain.Lead{}, errors.New("upstream down")
}

func TestRunPassesThroughOnEnrichError(t *testing.T) {
	deps := testDeps()
	deps.Enricher = failingEnricher{}

	out, errs := Run(context.Background(), deps, []domain.Lead{hotLead()})
	if len(errs) != 0 {
		t.Fatalf("enrich failures are not batch errors: %v", errs)
	}
	if out[0].Email != "ana@acme.io" {
		t.Errorf("lead not passed through: %+v", out[0])
	}
	if out[0].Score != 100 {
		t.Errorf("passed-through lead must still be scored, got %d", out[0].Score)
	}
}

func TestRunParallelKeepsInputOrder(t *testing.T) {
	deps := testDeps()
	deps.Cfg.Pipeline.Workers = 4

	var leads []domain.Lead
	for i := 0; i < 16; i++ {
		leads = append(leads, domain.Lead{
			Name:  fmt.Sprintf("lead-%02d", i),
			Email: fmt.Sprintf("lead-%02d@acme.io", i),
		})
	}

	out, errs := Run(context.Background(), deps, leads)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for i := range leads {
		if out[i].Email != leads[i].Email {
			t.Fatalf("out[%d]=%s, want %s", i, out[i].Email, leads[i].Email)
		}
	}
}

func TestRunFiresOnScored(t *testing.T) {
	deps := testDeps()
	var seen []string
	deps.OnScored = func(l domain.Lead) { seen = append(seen, l.Email) }

	_, _ = Run(context.Background(), deps, []domain.Lead{hotLead(), coldLead()})
	if len(seen) != 2 {
		t.Errorf("OnScored fired %d times, want 2", len(seen))
	}
}
