// Package output renders and saves processed leads: priority ascending
// (P0 first), then score descending.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/olekukonko/tablewriter"

	"leadflow-engine/internal/domain"
)

var columns = []string{
	"name", "email", "company", "employees", "industry", "intent_signal",
	"score", "priority", "owner", "ai_subject", "ai_first_line",
}

// Sort orders leads by priority ascending then score descending,
// returning a new slice.
func Sort(leads []domain.Lead) []domain.Lead {
	out := make([]domain.Lead, len(leads))
	copy(out, leads)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func row(l domain.Lead) []string {
	employees := ""
	if l.HasEmployees() {
		employees = fmt.Sprintf("%d", l.EmployeeCount())
	}
	return []string{
		l.Name, l.Email, l.Company, employees, l.Industry, l.IntentSignal,
		fmt.Sprintf("%d", l.Score), l.Priority, l.Owner, l.AISubject, l.AIFirstLine,
	}
}

// PrintTable renders the sorted leads as a table.
func PrintTable(w io.Writer, leads []domain.Lead) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(columns)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	for _, l := range Sort(leads) {
		t.Append(row(l))
	}
	t.Render()
}

// WriteCSV saves the sorted leads, creating parent directories as needed.
func WriteCSV(path string, leads []domain.Lead) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, l := range Sort(leads) {
		if err := w.Write(row(l)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
