package route

import (
	"strings"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
)

// Owner assigns a territory owner from country and employee count.
// Pure and deterministic; first matching rule wins. A missing country
// defaults to US and a missing employee count to 0.
func Owner(lead domain.Lead, cfg config.Config) string {
	country := strings.ToUpper(strings.TrimSpace(lead.Country))
	if country == "" {
		country = "US"
	}
	employees := lead.EmployeeCount()

	r := cfg.Routing
	if inList(country, r.AmerCountries) {
		if employees >= r.EnterpriseMinEmployees {
			return r.EnterpriseOwner
		}
		return r.AmerSMBOwner
	}
	if inList(country, r.EMEACountries) {
		return r.EMEAOwner
	}
	return r.RestOfWorldOwner
}

func inList(v string, xs []string) bool {
	for _, x := range xs {
		if strings.EqualFold(v, strings.TrimSpace(x)) {
			return true
		}
	}
	return false
}
