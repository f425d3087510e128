package route

import (
	"testing"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
)

func TestOwnerRouting(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		name      string
		country   string
		employees *int
		want      string
	}{
		{"us enterprise", "US", intp(600), "enterprise@company.com"},
		{"us smb", "US", intp(10), "amer-smb@company.com"},
		{"ca enterprise boundary", "CA", intp(500), "enterprise@company.com"},
		{"emea", "DE", nil, "emea@company.com"},
		{"rest of world", "JP", nil, "row@company.com"},
		{"missing country defaults to us", "", nil, "amer-smb@company.com"},
		{"lowercase country", "gb", nil, "emea@company.com"},
		{"missing employees default 0", "US", nil, "amer-smb@company.com"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lead := domain.Lead{Country: c.country, Employees: c.employees}
			if got := Owner(lead, cfg); got != c.want {
				t.Errorf("Owner(country=%q, employees=%v)=%q, want %q", c.country, c.employees, got, c.want)
			}
		})
	}
}

func intp(n int) *int { return &n }
