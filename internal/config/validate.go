package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes keyword lists and checks the
// config for values that would make a run misbehave.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Scoring.Industry.Any = trimList(out.Scoring.Industry.Any)
	out.Scoring.Title.Any = trimList(out.Scoring.Title.Any)
	out.Scoring.IntentStrong.Any = trimList(out.Scoring.IntentStrong.Any)
	out.Routing.AmerCountries = trimList(out.Routing.AmerCountries)
	out.Routing.EMEACountries = trimList(out.Routing.EMEACountries)

	// ---- scoring ----

	if out.Scoring.EmployeeRange.Min > out.Scoring.EmployeeRange.Max {
		res.addErr("scoring.employee_range: min (%d) > max (%d)",
			out.Scoring.EmployeeRange.Min, out.Scoring.EmployeeRange.Max)
	}
	checkRule := func(name string, r KeywordRule) {
		if r.Weight != 0 && len(r.Any) == 0 {
			res.addWarn("scoring.%s has a weight but no terms; it will never fire", name)
		}
		for i, term := range r.Any {
			if term == "" {
				res.addErr("scoring.%s.any[%d] cannot be empty", name, i)
			}
		}
	}
	checkRule("industry", out.Scoring.Industry)
	checkRule("title", out.Scoring.Title)
	checkRule("intent_strong", out.Scoring.IntentStrong)

	// ---- enrich / personalize ----

	switch strings.ToLower(out.Enrich.Provider) {
	case "mock", "clearbit":
	default:
		res.addWarn("enrich.provider %q is unknown; falling back to mock", out.Enrich.Provider)
	}

	// ---- routing ----

	for _, field := range []struct{ name, v string }{
		{"routing.enterprise_owner", out.Routing.EnterpriseOwner},
		{"routing.amer_smb_owner", out.Routing.AmerSMBOwner},
		{"routing.emea_owner", out.Routing.EMEAOwner},
		{"routing.row_owner", out.Routing.RestOfWorldOwner},
	} {
		if strings.TrimSpace(field.v) == "" {
			res.addErr("%s is required", field.name)
		}
	}
	if out.Routing.EnterpriseMinEmployees < 0 {
		res.addErr("routing.enterprise_min_employees must be >= 0")
	}

	// ---- mailbox ----

	if out.Mailbox.Enabled {
		if strings.TrimSpace(out.Mailbox.IMAPHost) == "" {
			res.addErr("mailbox.imap_host is required when mailbox.enabled=true")
		}
		if out.Mailbox.IMAPPort == 0 {
			res.addErr("mailbox.imap_port is required when mailbox.enabled=true")
		}
		if strings.TrimSpace(out.Mailbox.Username) == "" {
			res.addErr("mailbox.username is required when mailbox.enabled=true")
		}
		if out.Mailbox.PollSeconds < 1 {
			res.addErr("mailbox.poll_seconds must be >= 1 when mailbox.enabled=true")
		} else if out.Mailbox.PollSeconds < 30 {
			res.addWarn("mailbox.poll_seconds is very low (%d) and may trip server limits", out.Mailbox.PollSeconds)
		}
	}

	// ---- pipeline ----

	if out.Pipeline.Workers < 1 {
		res.addErr("pipeline.workers must be >= 1")
	}

	return out, res
}
