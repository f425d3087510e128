package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leadflow-engine/internal/domain"
	"leadflow-engine/internal/events"
	"leadflow-engine/internal/source/csvfile"
	"leadflow-engine/internal/store"
)

// API wires the serve-mode endpoints. Process runs the pipeline on a
// batch and persists the results; it is injected so the handler layer
// stays free of pipeline wiring.
type API struct {
	Store   *store.Store
	Hub     *events.Hub
	Process func(ctx context.Context, leads []domain.Lead) ([]domain.Lead, []error)
}

func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.health)
	mux.HandleFunc("/leads", a.listLeads)
	mux.HandleFunc("/process", a.process)
	mux.HandleFunc("/events", a.eventsSSE)
	return Chain(mux, RequestID, AccessLog, Recover, Cors)
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
}

func (a *API) listLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	leads, err := a.Store.ListLeads(r.Context(), store.ListOpts{
		Sort:  q.Get("sort"),
		Order: q.Get("order"),
		Limit: limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, leads)
}

// process accepts a CSV body (same columns as the CLI input), runs the
// pipeline, and returns the processed batch. Notification failures are
// reported in the response but do not fail the request.
func (a *API) process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	leads, err := csvfile.Parse(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_csv", err.Error())
		return
	}

	processed, notifyErrs := a.Process(r.Context(), leads)

	reqID := RequestIDFrom(r.Context())
	a.Hub.Publish(events.Make(reqID, events.TypeBatchProcessed, map[string]int{"count": len(processed)}))

	var notifyMsgs []string
	for _, e := range notifyErrs {
		notifyMsgs = append(notifyMsgs, e.Error())
	}
	writeJSON(w, map[string]any{
		"count":         len(processed),
		"leads":         processed,
		"notify_errors": notifyMsgs,
	})
}

func (a *API) eventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	ch := a.Hub.Subscribe()
	defer a.Hub.Unsubscribe(ch)

	fmt.Fprintf(w, "event: ping\ndata: %s\n\n", `{"type":"ping"}`)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
