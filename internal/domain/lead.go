package domain

// Lead is the record flowing through every pipeline stage. Each stage only
// adds or overwrites its own fields, never deletes others.
type Lead struct {
	// identity
	Name  string
	Email string

	// firmographics
	Company   string
	Domain    string
	Employees *int // nil means absent; 0 is a real value
	Industry  string
	Country   string // ISO-ish two-letter code
	Title     string

	// behavioral
	IntentSignal string

	// derived (written by the pipeline, never by the caller)
	Score        int
	ScoreReasons []string
	Priority     string // P0 / P1 / P2
	Owner        string

	AISubject    string
	AIFirstLine  string
	AICTA        string
	AIBody       string
	AIConfidence float64
	AINotes      string
}

// EmployeeCount returns the employee count, or 0 if absent. Scoring and
// routing both treat a missing count as 0.
func (l Lead) EmployeeCount() int {
	if l.Employees == nil {
		return 0
	}
	return *l.Employees
}

func (l Lead) HasEmployees() bool { return l.Employees != nil }

// SetEmployees is a convenience for intake code and test literals.
func (l *Lead) SetEmployees(n int) {
	l.Employees = &n
}

// Personalization is the output of the personalization stage.
type Personalization struct {
	Subject    string
	FirstLine  string
	CTA        string
	Body       string
	Confidence float64
	Notes      string
}
