package csvfile

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	in := strings.NewReader(
		"name,email,company,employees,industry,country,title,intent_signal\n" +
			"Ana,ana@acme.io,Acme,200,SaaS,US,VP Growth,pricing\n" +
			"Bo,bo@pixel.studio,,,,,,\n")

	leads, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("leads=%d, want 2", len(leads))
	}

	ana := leads[0]
	if ana.Name != "Ana" || ana.Email != "ana@acme.io" || ana.Title != "VP Growth" {
		t.Errorf("ana parsed wrong: %+v", ana)
	}
	if !ana.HasEmployees() || ana.EmployeeCount() != 200 {
		t.Errorf("ana employees=%v", ana.Employees)
	}

	bo := leads[1]
	if bo.HasEmployees() {
		t.Errorf("bo should have no employee count, got %d", bo.EmployeeCount())
	}
	if bo.Company != "" || bo.IntentSignal != "" {
		t.Errorf("bo optional fields should stay empty: %+v", bo)
	}
}

func TestParseBadEmployeesIsAbsent(t *testing.T) {
	in := strings.NewReader("name,email,employees\nAna,ana@acme.io,lots\n")

	leads, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leads[0].HasEmployees() {
		t.Errorf("non-numeric employees must be treated as absent, got %d", leads[0].EmployeeCount())
	}
}

func TestParseNegativeEmployeesIsAbsent(t *testing.T) {
	in := strings.NewReader("name,email,employees\nAna,ana@acme.io,-3\n")

	leads, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leads[0].HasEmployees() {
		t.Error("negative employees must be treated as absent")
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatal("empty input must be an error")
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	in := strings.NewReader("Name,Email\nAna,ana@acme.io\n")
	leads, err := Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leads[0].Name != "Ana" {
		t.Errorf("name=%q", leads[0].Name)
	}
}
