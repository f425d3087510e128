// Package events fans pipeline progress out to serve-mode SSE clients.
package events

import (
	"encoding/json"
	"time"
)

const (
	TypeLeadScored     = "lead_scored"
	TypeBatchProcessed = "batch_processed"
)

type Event struct {
	Type      string          `json:"type"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func Make(reqID, typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:      typ,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

func (e Event) encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
