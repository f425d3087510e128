// Package csvfile reads a lead batch from a CSV file. The whole file is
// loaded into memory before processing starts.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"leadflow-engine/internal/domain"
)

// Read parses a header-mapped CSV file into leads.
func Read(path string) ([]domain.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a whole CSV stream into leads. Only name and email are
// expected; every other column is optional. Unknown columns are ignored
// and a malformed employees value is treated as absent.
func Parse(src io.Reader) ([]domain.Lead, error) {
	r := csv.NewReader(src)
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv input is empty")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var leads []domain.Lead
	for n, row := range rows[1:] {
		lead := domain.Lead{
			Name:         get(row, "name"),
			Email:        get(row, "email"),
			Company:      get(row, "company"),
			Domain:       get(row, "domain"),
			Industry:     get(row, "industry"),
			Country:      get(row, "country"),
			Title:        get(row, "title"),
			IntentSignal: get(row, "intent_signal"),
		}

		if raw := get(row, "employees"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
				lead.SetEmployees(v)
			} else {
				log.Printf("[csv] row %d: employees %q is not a count, treating as absent", n+2, raw)
			}
		}

		leads = append(leads, lead)
	}
	return leads, nil
}
