package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
	"leadflow-engine/internal/events"
	"leadflow-engine/internal/httpapi"
	"leadflow-engine/internal/pipeline"
	"leadflow-engine/internal/rank"
	"leadflow-engine/internal/scheduler"
	"leadflow-engine/internal/store"
)

// runServe hosts the local API: process batches over HTTP, list stored
// leads, and stream events. When the mailbox source is enabled, it is
// polled on the configured interval and fed through the same pipeline.
func runServe(cfg config.Config, deps pipeline.Deps, st *store.Store) {
	hub := events.NewHub()

	deps.OnScored = func(l domain.Lead) {
		if l.Priority == rank.PriorityP0 || l.Priority == rank.PriorityP1 {
			hub.Publish(events.Make("", events.TypeLeadScored, map[string]any{
				"email":    l.Email,
				"score":    l.Score,
				"priority": l.Priority,
				"owner":    l.Owner,
			}))
		}
	}

	process := func(ctx context.Context, leads []domain.Lead) ([]domain.Lead, []error) {
		processed, notifyErrs := pipeline.Run(ctx, deps, leads)
		saveBatch(ctx, st, processed)
		return processed, notifyErrs
	}

	api := &httpapi.API{Store: st, Hub: hub, Process: process}

	if cfg.Mailbox.Enabled {
		interval := time.Duration(cfg.Mailbox.PollSeconds) * time.Second
		go scheduler.Every(context.Background(), interval, "mailbox", func(ctx context.Context) error {
			leads, err := fetchMailbox(ctx, cfg)
			if err != nil {
				return err
			}
			if len(leads) == 0 {
				return nil
			}
			processed, _ := pipeline.Run(ctx, deps, leads)
			saveBatch(ctx, st, processed)
			hub.Publish(events.Make(uuid.NewString(), events.TypeBatchProcessed, map[string]int{"count": len(processed)}))
			return nil
		})
	}

	ln, err := net.Listen("tcp", cfg.App.Addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("leadflow listening on http://%s (data_dir=%s)", cfg.App.Addr, cfg.App.DataDir)

	srv := &http.Server{
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}
