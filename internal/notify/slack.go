// Package notify pushes top-priority leads to a Slack-style incoming
// webhook. Unlike enrichment and personalization, a failure here is
// returned to the caller instead of being swallowed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadflow-engine/internal/domain"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Payload formats the one-field webhook body for a lead.
func Payload(lead domain.Lead) map[string]string {
	return map[string]string{
		"text": fmt.Sprintf(
			"🔥 New %s lead: %s @ %s (score=%d) -> owner: %s\nReasons: %s",
			lead.Priority, lead.Name, lead.Company, lead.Score, lead.Owner,
			strings.Join(lead.ScoreReasons, ", "),
		),
	}
}

// Post issues one synchronous POST. Non-2xx is an error; the caller
// decides whether to log-and-continue or abort.
func Post(ctx context.Context, webhookURL string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook status %d", res.StatusCode)
	}
	return nil
}
