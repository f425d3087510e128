package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesShippedRules(t *testing.T) {
	cfg := Default()

	if cfg.Scoring.EmployeeRange.Min != 25 || cfg.Scoring.EmployeeRange.Max != 1000 || cfg.Scoring.EmployeeRange.Weight != 30 {
		t.Errorf("employee range rule: %+v", cfg.Scoring.EmployeeRange)
	}
	if cfg.Scoring.IntentStrong.Weight != 35 || cfg.Scoring.IntentWeak.Weight != 10 {
		t.Errorf("intent weights: %+v / %+v", cfg.Scoring.IntentStrong, cfg.Scoring.IntentWeak)
	}
	if cfg.Routing.EnterpriseMinEmployees != 500 {
		t.Errorf("enterprise min: %d", cfg.Routing.EnterpriseMinEmployees)
	}
	if cfg.Enrich.Provider != "mock" {
		t.Errorf("enrich provider default=%q", cfg.Enrich.Provider)
	}
	if cfg.Pipeline.Workers != 1 {
		t.Errorf("workers default=%d", cfg.Pipeline.Workers)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	partial := "enrich:\n  provider: clearbit\nnotify:\n  webhook_url: https://hooks.example.com/x\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Enrich.Provider != "clearbit" {
		t.Errorf("provider=%q", cfg.Enrich.Provider)
	}
	if cfg.Notify.WebhookURL != "https://hooks.example.com/x" {
		t.Errorf("webhook=%q", cfg.Notify.WebhookURL)
	}
	// untouched sections keep their defaults
	if cfg.Scoring.EmployeeRange.Weight != 30 {
		t.Errorf("employee weight=%d, want default 30", cfg.Scoring.EmployeeRange.Weight)
	}
	if cfg.Routing.EMEAOwner != "emea@company.com" {
		t.Errorf("emea owner=%q", cfg.Routing.EMEAOwner)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ENRICH_PROVIDER", "clearbit")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example.com/env")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg := Default()
	ApplyEnv(&cfg)

	if cfg.Enrich.Provider != "clearbit" {
		t.Errorf("provider=%q", cfg.Enrich.Provider)
	}
	if cfg.Notify.WebhookURL != "https://hooks.example.com/env" {
		t.Errorf("webhook=%q", cfg.Notify.WebhookURL)
	}
	if cfg.Personalize.Model != "gpt-4o" {
		t.Errorf("model=%q", cfg.Personalize.Model)
	}
}

func TestValidateCatchesBadConfig(t *testing.T) {
	cfg := Default()
	cfg.Scoring.EmployeeRange.Min = 2000
	cfg.Routing.EMEAOwner = ""
	cfg.Pipeline.Workers = 0

	_, res := NormalizeAndValidate(cfg)
	if res.OK() {
		t.Fatal("expected validation errors")
	}
	if len(res.Errors) < 3 {
		t.Errorf("errors=%v", res.Errors)
	}
}

func TestValidateMailboxRequirements(t *testing.T) {
	cfg := Default()
	cfg.Mailbox.Enabled = true

	_, res := NormalizeAndValidate(cfg)
	if res.OK() {
		t.Fatal("enabled mailbox without host/username must fail validation")
	}
}

func TestValidateMailboxPollInterval(t *testing.T) {
	cfg := Default()
	cfg.Mailbox.Enabled = true
	cfg.Mailbox.IMAPHost = "imap.example.com"
	cfg.Mailbox.Username = "leads@example.com"

	cfg.Mailbox.PollSeconds = 0
	if _, res := NormalizeAndValidate(cfg); res.OK() {
		t.Fatal("poll_seconds=0 with mailbox enabled must fail validation, not panic the poll loop")
	}

	cfg.Mailbox.PollSeconds = 300
	if _, res := NormalizeAndValidate(cfg); !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := Default()
	cfg.Enrich.Provider = "clearbit"
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Enrich.Provider != "clearbit" {
		t.Errorf("round-trip lost provider: %q", loaded.Enrich.Provider)
	}

	// second save keeps a .bak of the first
	if err := SaveAtomic(path, Default()); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("missing .bak: %v", err)
	}
}
