package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadflow-engine/internal/domain"
)

// Aggregators and directories that a web search surfaces instead of the
// company's own site.
var domainBlocklist = []string{
	"linkedin.com",
	"crunchbase.com",
	"wikipedia.org",
	"facebook.com",
	"twitter.com",
	"x.com",
	"glassdoor.com",
	"indeed.com",
	"bloomberg.com",
	"zoominfo.com",
	"apollo.io",
	"yelp.com",
}

// DomainCache lets the discoverer reuse lookups across leads and runs.
// The store implements it; a nil cache disables caching.
type DomainCache interface {
	GetDomain(ctx context.Context, company string) (string, error)
	PutDomain(ctx context.Context, company, domain string) error
}

// Discoverer fills a missing lead domain by searching for the company's
// website. Opt-in (enrich.discover_domains); the default pipeline stays
// offline in mock mode.
type Discoverer struct {
	Cache   DomainCache
	Limiter *HostLimiter
	hc      *http.Client
	baseURL string
}

func NewDiscoverer(cache DomainCache) *Discoverer {
	return &Discoverer{
		Cache:   cache,
		Limiter: NewHostLimiter(1.0, 2),
		hc:      &http.Client{Timeout: 12 * time.Second},
		baseURL: "https://duckduckgo.com",
	}
}

// Fill returns the lead with Domain populated when discovery succeeds.
// Best-effort: errors leave the lead unchanged.
func (d *Discoverer) Fill(ctx context.Context, lead domain.Lead) domain.Lead {
	if lead.Domain != "" || strings.TrimSpace(lead.Company) == "" {
		return lead
	}

	if d.Cache != nil {
		if dom, err := d.Cache.GetDomain(ctx, lead.Company); err == nil && dom != "" {
			lead.Domain = dom
			return lead
		}
	}

	dom, err := d.findCompanyDomain(ctx, lead.Company)
	if err != nil || dom == "" {
		return lead
	}

	if d.Cache != nil {
		_ = d.Cache.PutDomain(ctx, lead.Company, dom)
	}
	lead.Domain = dom
	return lead
}

func (d *Discoverer) findCompanyDomain(ctx context.Context, company string) (string, error) {
	query := sanitizeCompanyForSearch(company) + " official website"
	u := d.baseURL + "/html/?q=" + url.QueryEscape(query)

	if d.Limiter != nil {
		if err := d.Limiter.WaitURL(ctx, u); err != nil {
			return "", err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := d.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("search status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var best string
	doc.Find("a.result__a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}

		host := hostFromURL(decodeRedirect(href))
		if host == "" {
			return true
		}

		host = strings.ToLower(strings.TrimPrefix(host, "www."))
		if isBlockedDomain(host) {
			return true
		}

		best = host
		return false // first good domain wins
	})

	return best, nil
}

// decodeRedirect unwraps /l/?uddg=<urlencoded> result links.
func decodeRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		if dec, err := url.QueryUnescape(uddg); err == nil && dec != "" {
			return dec
		}
	}
	return href
}

func hostFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

func isBlockedDomain(host string) bool {
	for _, b := range domainBlocklist {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}

func sanitizeCompanyForSearch(s string) string {
	s = strings.TrimSpace(s)
	r := strings.NewReplacer(
		", Inc.", "", " Inc.", "", " Inc", "",
		", LLC", "", " LLC", "",
		", Ltd.", "", " Ltd.", "", " Ltd", "",
		" GmbH", "",
	)
	s = r.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
