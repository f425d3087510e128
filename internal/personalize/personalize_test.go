package personalize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"leadflow-engine/internal/domain"
)

func testLead() domain.Lead {
	lead := domain.Lead{
		Name:         "Ana",
		Title:        "VP Growth",
		Company:      "Acme",
		Industry:     "SaaS",
		IntentSignal: "pricing",
	}
	lead.SetEmployees(200)
	return lead
}

func TestTemplateOutput(t *testing.T) {
	p := Template{}.Personalize(context.Background(), testLead())

	if p.Confidence != 0.55 {
		t.Errorf("confidence=%v, want 0.55", p.Confidence)
	}
	if !strings.Contains(p.FirstLine, "Ana") || !strings.Contains(p.FirstLine, "VP Growth") {
		t.Errorf("first line missing name/title: %q", p.FirstLine)
	}
	if !strings.Contains(p.FirstLine, "If you're exploring pricing") {
		t.Errorf("first line missing intent clause: %q", p.FirstLine)
	}
	if p.Subject != "Automating your lead workflow" {
		t.Errorf("subject=%q", p.Subject)
	}
	if !strings.Contains(p.Body, p.CTA) {
		t.Errorf("body missing cta: %q", p.Body)
	}
}

func TestTemplateDefaultsForEmptyLead(t *testing.T) {
	p := Template{}.Personalize(context.Background(), domain.Lead{})

	want := "Hi there - saw you're leading your team at your company."
	if p.FirstLine != want {
		t.Errorf("first line=%q, want %q", p.FirstLine, want)
	}
}

func TestFallbackEqualsTemplatePath(t *testing.T) {
	// Simulated transport failure: the generative output must be exactly
	// the template output, field for field.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := NewOpenAI("key", "")
	o.baseURL = srv.URL

	lead := testLead()
	got := o.Personalize(context.Background(), lead)
	want := Template{}.Personalize(context.Background(), lead)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback output differs from template path:\n got %+v\nwant %+v", got, want)
	}
}

func TestFallbackOnUnparseableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"no json here at all"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("key", "")
	o.baseURL = srv.URL

	lead := testLead()
	got := o.Personalize(context.Background(), lead)
	want := Template{}.Personalize(context.Background(), lead)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unparseable response must fall back to template")
	}
}

func TestGenerativeFieldDefaults(t *testing.T) {
	// Model returns a sparse object wrapped in prose; every missing field
	// gets its documented default and the confidence is clamped.
	content := "Sure! Here you go: {\"subject\": \"\", \"confidence\": 3.2}"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("auth header=%q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":` + jsonString(content) + `}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("key", "")
	o.baseURL = srv.URL

	p := o.Personalize(context.Background(), testLead())

	if p.Subject != "Quick question" {
		t.Errorf("subject=%q, want default", p.Subject)
	}
	if p.FirstLine != "Hi - quick question." {
		t.Errorf("first line=%q, want default", p.FirstLine)
	}
	if p.CTA != "Worth a quick chat?" {
		t.Errorf("cta=%q, want default", p.CTA)
	}
	if p.Body != "Hi - quick question.\n\nWorth a quick chat?" {
		t.Errorf("body=%q", p.Body)
	}
	if p.Confidence != 1 {
		t.Errorf("confidence=%v, want clamped to 1", p.Confidence)
	}
	if p.Notes != "Generated with OpenAI from provided fields." {
		t.Errorf("notes=%q", p.Notes)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`{"a": 1}`, true},
		{"prose before {\"a\": 1} prose after", true},
		{"no braces", false},
		{"", false},
		{"{not json}", false},
	}
	for _, c := range cases {
		got := extractJSON(c.in)
		if (got != nil) != c.want {
			t.Errorf("extractJSON(%q) parsed=%v, want %v", c.in, got != nil, c.want)
		}
	}
}

func TestProviderDispatch(t *testing.T) {
	if got := For("openai", "key", "").Name(); got != "openai" {
		t.Errorf("For(openai)=%s", got)
	}
	if got := For("OpenAI", "key", "").Name(); got != "openai" {
		t.Errorf("dispatch should be case-insensitive, got %s", got)
	}
	if got := For("openai", "", "").Name(); got != "template" {
		t.Errorf("missing key must select template, got %s", got)
	}
	if got := For("unheard-of", "key", "").Name(); got != "template" {
		t.Errorf("unknown provider must select template, got %s", got)
	}
}

func TestPromptEmbedsOnlyLeadFields(t *testing.T) {
	prompt := buildPrompt(testLead())

	for _, want := range []string{"Ana", "VP Growth", "Acme", "SaaS", "200", "pricing"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// The content-safety constraints are part of the prompt contract.
	for _, want := range []string{
		"do NOT invent facts or claim you browsed",
		"Do NOT mention tracking, surveillance, or that you saw their activity.",
		"Do NOT invent company facts (no funding, tech stack, recent news, etc.).",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing constraint %q", want)
		}
	}
}

func jsonString(s string) string {
	b := strings.Builder{}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
