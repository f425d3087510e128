package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"leadflow-engine/internal/domain"
)

type ListOpts struct {
	Sort  string // score | priority | processed_at
	Order string // asc | desc
	Limit int
}

// InsertLeadIgnore saves a processed lead, keyed by (batch_id, email).
// Returns whether a new row was added.
func (s *Store) InsertLeadIgnore(ctx context.Context, batchID string, l domain.Lead) (bool, error) {
	reasons, _ := json.Marshal(l.ScoreReasons)

	var employees any
	if l.HasEmployees() {
		employees = l.EmployeeCount()
	}

	_, err := s.DB.ExecContext(ctx, `
INSERT OR IGNORE INTO leads (
  batch_id, name, email, company, domain, employees, industry, country,
  title, intent_signal, score, reasons, priority, owner,
  ai_subject, ai_first_line, ai_cta, ai_body, ai_confidence, ai_notes,
  processed_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		batchID, l.Name, l.Email, l.Company, l.Domain, employees, l.Industry, l.Country,
		l.Title, l.IntentSignal, l.Score, string(reasons), l.Priority, l.Owner,
		l.AISubject, l.AIFirstLine, l.AICTA, l.AIBody, l.AIConfidence, l.AINotes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert lead: %w", err)
	}

	// INSERT OR IGNORE doesn't report rows affected reliably across
	// drivers; changes() does.
	var changes int
	if err := s.DB.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return true, nil
	}
	return changes > 0, nil
}

// ListLeads returns stored leads for the serve-mode API.
func (s *Store) ListLeads(ctx context.Context, opts ListOpts) ([]domain.Lead, error) {
	sortCol := "processed_at"
	switch opts.Sort {
	case "score":
		sortCol = "score"
	case "priority":
		sortCol = "priority"
	}
	order := "DESC"
	if opts.Order == "asc" {
		order = "ASC"
	}
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	q := fmt.Sprintf(`
SELECT name, email, company, domain, employees, industry, country, title,
       intent_signal, score, reasons, priority, owner,
       ai_subject, ai_first_line, ai_cta, ai_body, ai_confidence, ai_notes
FROM leads
ORDER BY %s %s
LIMIT %d;`, sortCol, order, limit)

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		var employees sql.NullInt64
		var reasonsJSON string
		if err := rows.Scan(
			&l.Name, &l.Email, &l.Company, &l.Domain, &employees, &l.Industry, &l.Country, &l.Title,
			&l.IntentSignal, &l.Score, &reasonsJSON, &l.Priority, &l.Owner,
			&l.AISubject, &l.AIFirstLine, &l.AICTA, &l.AIBody, &l.AIConfidence, &l.AINotes,
		); err != nil {
			return nil, err
		}
		if employees.Valid {
			l.SetEmployees(int(employees.Int64))
		}
		_ = json.Unmarshal([]byte(reasonsJSON), &l.ScoreReasons)
		out = append(out, l)
	}
	return out, rows.Err()
}
