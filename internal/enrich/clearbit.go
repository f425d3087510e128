package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"leadflow-engine/internal/domain"
)

// Clearbit looks up a lead by email against the combined person+company
// endpoint. One synchronous request per lead, no retries; any failure
// degrades to pass-through (not to mock fill-in).
type Clearbit struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

func NewClearbit(apiKey string) *Clearbit {
	return &Clearbit{
		apiKey:  apiKey,
		baseURL: "https://person.clearbit.com",
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Clearbit) Name() string { return "clearbit" }

// combinedResponse mirrors the nested company/person shape. Every field
// is optional; absence must not fail the call.
type combinedResponse struct {
	Company struct {
		Name    string `json:"name"`
		Domain  string `json:"domain"`
		Metrics struct {
			Employees int `json:"employees"`
		} `json:"metrics"`
		Geo struct {
			Country string `json:"country"`
		} `json:"geo"`
		Category struct {
			Industry string `json:"industry"`
		} `json:"category"`
	} `json:"company"`
	Person struct {
		Employment struct {
			Title string `json:"title"`
		} `json:"employment"`
	} `json:"person"`
}

func (c *Clearbit) Enrich(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	if lead.Email == "" {
		return lead, nil
	}

	u := c.baseURL + "/v2/combined/find?email=" + url.QueryEscape(lead.Email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return lead, err
	}
	req.SetBasicAuth(c.apiKey, "")

	res, err := c.hc.Do(req)
	if err != nil {
		return lead, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return lead, nil
	}

	var data combinedResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return lead, err
	}

	// Merge, preferring values already on the lead.
	out := lead
	out.Company = orDefault(lead.Company, data.Company.Name)
	out.Domain = orDefault(lead.Domain, data.Company.Domain)
	if !lead.HasEmployees() && data.Company.Metrics.Employees > 0 {
		out.SetEmployees(data.Company.Metrics.Employees)
	}
	out.Title = orDefault(lead.Title, data.Person.Employment.Title)
	out.Country = orDefault(lead.Country, data.Company.Geo.Country)
	out.Industry = orDefault(lead.Industry, data.Company.Category.Industry)
	return out, nil
}
