package personalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leadflow-engine/internal/domain"
)

// OpenAI asks a chat-completions endpoint for a JSON draft. Personalize
// never fails: generate returns an error only for the documented failure
// classes (transport, non-2xx, empty or unparseable response) and every
// one of them resolves to the template output.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com",
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Personalize(ctx context.Context, lead domain.Lead) domain.Personalization {
	p, err := o.generate(ctx, lead)
	if err != nil {
		log.Printf("[personalize] falling back to template: %v", err)
		return Template{}.Personalize(ctx, lead)
	}
	return p
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) generate(ctx context.Context, lead domain.Lead) (domain.Personalization, error) {
	var zero domain.Personalization

	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant designed to output JSON."},
			{Role: "user", Content: buildPrompt(lead)},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return zero, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := o.hc.Do(req)
	if err != nil {
		return zero, fmt.Errorf("openai request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return zero, fmt.Errorf("openai status %d", res.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}

	textOut := ""
	if len(cr.Choices) > 0 {
		textOut = cr.Choices[0].Message.Content
	}
	if textOut == "" {
		// Some gateways flatten the shape; try the raw body before giving up.
		textOut = string(body)
	}

	parsed := extractJSON(textOut)
	if parsed == nil {
		return zero, fmt.Errorf("no JSON object in model output")
	}

	return fromParsed(parsed), nil
}

// extractJSON pulls a JSON object out of the model output even when it is
// wrapped in prose: direct parse first, then the outermost brace-delimited
// substring. Returns nil when nothing parses.
func extractJSON(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		var m map[string]any
		if err := json.Unmarshal([]byte(text), &m); err == nil {
			return m
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		return nil
	}
	return m
}

// fromParsed defaults each output field independently and clamps the
// confidence into [0,1].
func fromParsed(parsed map[string]any) domain.Personalization {
	subject := clean(stringField(parsed, "subject"))
	if subject == "" {
		subject = "Quick question"
	}
	firstLine := clean(stringField(parsed, "first_line"))
	if firstLine == "" {
		firstLine = "Hi - quick question."
	}
	cta := clean(stringField(parsed, "cta"))
	if cta == "" {
		cta = "Worth a quick chat?"
	}
	body := strings.TrimSpace(stringField(parsed, "body"))
	if body == "" {
		body = firstLine + "\n\n" + cta
	}
	notes := clean(stringField(parsed, "notes"))
	if notes == "" {
		notes = "Generated with OpenAI from provided fields."
	}

	return domain.Personalization{
		Subject:    subject,
		FirstLine:  firstLine,
		CTA:        cta,
		Body:       body,
		Confidence: clamp(floatField(parsed, "confidence", 0.6), 0, 1),
		Notes:      notes,
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func floatField(m map[string]any, key string, def float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
