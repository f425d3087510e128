package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RangeRule awards Weight when a numeric field falls inside [Min, Max].
type RangeRule struct {
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	Weight int    `yaml:"weight"`
	Reason string `yaml:"reason"`
}

// KeywordRule awards Weight when the target text contains any of the terms.
type KeywordRule struct {
	Any    []string `yaml:"any"`
	Weight int      `yaml:"weight"`
	Reason string   `yaml:"reason"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
		Addr    string `yaml:"addr"`
	} `yaml:"app"`

	Enrich struct {
		Provider        string `yaml:"provider"` // mock | clearbit
		DiscoverDomains bool   `yaml:"discover_domains"`
	} `yaml:"enrich"`

	Personalize struct {
		Provider string `yaml:"provider"` // openai | template
		Model    string `yaml:"model"`
	} `yaml:"personalize"`

	Notify struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"notify"`

	Scoring struct {
		EmployeeRange RangeRule   `yaml:"employee_range"`
		Industry      KeywordRule `yaml:"industry"`
		Title         KeywordRule `yaml:"title"`
		IntentStrong  KeywordRule `yaml:"intent_strong"`
		// IntentWeak.Any is ignored: any non-empty intent text matches.
		IntentWeak KeywordRule `yaml:"intent_weak"`
	} `yaml:"scoring"`

	Routing struct {
		EnterpriseOwner        string   `yaml:"enterprise_owner"`
		AmerSMBOwner           string   `yaml:"amer_smb_owner"`
		EMEAOwner              string   `yaml:"emea_owner"`
		RestOfWorldOwner       string   `yaml:"row_owner"`
		EnterpriseMinEmployees int      `yaml:"enterprise_min_employees"`
		AmerCountries          []string `yaml:"amer_countries"`
		EMEACountries          []string `yaml:"emea_countries"`
	} `yaml:"routing"`

	Mailbox struct {
		Enabled     bool   `yaml:"enabled"`
		IMAPHost    string `yaml:"imap_host"`
		IMAPPort    int    `yaml:"imap_port"`
		Username    string `yaml:"username"`
		Folder      string `yaml:"folder"`
		PollSeconds int    `yaml:"poll_seconds"`
	} `yaml:"mailbox"`

	Pipeline struct {
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`
}

// Default returns the built-in configuration. Scoring weights and routing
// owners match the shipped config/config.yml; a missing or partial user
// config falls back to these values.
func Default() Config {
	var cfg Config

	cfg.App.DataDir = "."
	cfg.App.Addr = "127.0.0.1:38491"

	cfg.Enrich.Provider = "mock"

	cfg.Personalize.Provider = "openai"
	cfg.Personalize.Model = "gpt-4o-mini"

	cfg.Scoring.EmployeeRange = RangeRule{Min: 25, Max: 1000, Weight: 30, Reason: "ICP employee range"}
	cfg.Scoring.Industry = KeywordRule{Any: []string{"saas", "software"}, Weight: 20, Reason: "ICP industry match"}
	cfg.Scoring.Title = KeywordRule{
		Any:    []string{"vp", "head", "director", "founder", "ceo", "cro", "revops", "growth"},
		Weight: 15,
		Reason: "Senior buyer title",
	}
	cfg.Scoring.IntentStrong = KeywordRule{
		Any:    []string{"pricing", "demo", "competitor", "integration"},
		Weight: 35,
		Reason: "High-intent signal",
	}
	cfg.Scoring.IntentWeak = KeywordRule{Weight: 10, Reason: "Some intent signal"}

	cfg.Routing.EnterpriseOwner = "enterprise@company.com"
	cfg.Routing.AmerSMBOwner = "amer-smb@company.com"
	cfg.Routing.EMEAOwner = "emea@company.com"
	cfg.Routing.RestOfWorldOwner = "row@company.com"
	cfg.Routing.EnterpriseMinEmployees = 500
	cfg.Routing.AmerCountries = []string{"US", "CA"}
	cfg.Routing.EMEACountries = []string{"GB", "IE", "DE", "FR", "NL"}

	cfg.Mailbox.IMAPPort = 993
	cfg.Mailbox.Folder = "INBOX"
	cfg.Mailbox.PollSeconds = 300

	cfg.Pipeline.Workers = 1

	return cfg
}

// Load reads a YAML config file on top of the defaults. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays the environment variables the original deployment
// used. Config is built once in main and passed down; nothing below main
// reads the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("ENRICH_PROVIDER"); v != "" {
		cfg.Enrich.Provider = v
	}
	if v := os.Getenv("PERSONALIZE_PROVIDER"); v != "" {
		cfg.Personalize.Provider = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Personalize.Model = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("LEADFLOW_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pipeline.Workers = n
		}
	}
}
