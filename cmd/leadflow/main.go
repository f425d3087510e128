package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"leadflow-engine/internal/config"
	"leadflow-engine/internal/domain"
	"leadflow-engine/internal/enrich"
	"leadflow-engine/internal/output"
	"leadflow-engine/internal/personalize"
	"leadflow-engine/internal/pipeline"
	"leadflow-engine/internal/rank"
	"leadflow-engine/internal/secrets"
	"leadflow-engine/internal/source/csvfile"
	"leadflow-engine/internal/source/mailbox"
	"leadflow-engine/internal/store"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "input CSV path (one row per lead)")
		outputPath = flag.String("output", "", "output CSV path for processed results")
		dataDir    = flag.String("data-dir", "", "data dir (default $LEADFLOW_DATA_DIR or .)")
		useDB      = flag.Bool("db", false, "save processed leads to the SQLite store")
		workers    = flag.Int("workers", 0, "batch workers (default from config)")
		serve      = flag.Bool("serve", false, "run the local API server instead of a one-shot batch")
		addr       = flag.String("addr", "", "listen address for --serve (default from config)")
		pollInbox  = flag.Bool("mailbox", false, "one-shot: pull leads from the configured IMAP folder")
	)
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("LEADFLOW_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath, err := config.EnsureUserConfig(dir, filepath.Join("config", "config.yml"))
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.ApplyEnv(&cfg)
	cfg.App.DataDir = dir
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *addr != "" {
		cfg.App.Addr = *addr
	}

	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, wmsg := range validation.Warnings {
		log.Printf("[config] warning: %s", wmsg)
	}
	if !validation.OK() {
		for _, emsg := range validation.Errors {
			log.Printf("[config] error: %s", emsg)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	var st *store.Store
	if *useDB || *serve || cfg.Enrich.DiscoverDomains {
		st, err = store.Open(dir)
		if err != nil {
			log.Fatalf("store open failed: %v", err)
		}
		defer st.Close()
	}

	deps := buildDeps(cfg, st)

	if *serve {
		runServe(cfg, deps, st)
		return
	}

	ctx := context.Background()

	var leads []domain.Lead
	switch {
	case *pollInbox:
		leads, err = fetchMailbox(ctx, cfg)
		if err != nil {
			log.Fatalf("mailbox fetch failed: %v", err)
		}
		log.Printf("[mailbox] fetched %d lead(s)", len(leads))
	case *csvPath != "":
		leads, err = csvfile.Read(*csvPath)
		if err != nil {
			log.Fatalf("csv read failed (%s): %v", *csvPath, err)
		}
	default:
		log.Fatal("please provide --csv path (or --serve / --mailbox)")
	}

	processed, notifyErrs := pipeline.Run(ctx, deps, leads)
	// Notification is a best-effort side channel; failures were already
	// logged per lead and do not abort the batch.
	if len(notifyErrs) > 0 {
		log.Printf("[notify] %d notification(s) failed", len(notifyErrs))
	}

	output.PrintTable(os.Stdout, processed)

	if *outputPath != "" {
		if err := output.WriteCSV(*outputPath, processed); err != nil {
			log.Fatalf("write output failed (%s): %v", *outputPath, err)
		}
		log.Printf("saved processed output to %s", *outputPath)
	}

	if st != nil && *useDB {
		saveBatch(ctx, st, processed)
	}
}

func buildDeps(cfg config.Config, st *store.Store) pipeline.Deps {
	deps := pipeline.Deps{
		Cfg:          cfg,
		Enricher:     enrich.New(cfg.Enrich.Provider, secrets.ClearbitAPIKey()),
		Scorer:       rank.RuleScorer{Cfg: cfg},
		Personalizer: personalize.For(cfg.Personalize.Provider, secrets.OpenAIAPIKey(), cfg.Personalize.Model),
	}
	if cfg.Enrich.DiscoverDomains {
		var cache enrich.DomainCache
		if st != nil {
			cache = st
		}
		deps.Discoverer = enrich.NewDiscoverer(cache)
	}
	return deps
}

func fetchMailbox(ctx context.Context, cfg config.Config) ([]domain.Lead, error) {
	password, err := secrets.IMAPPassword(cfg.Mailbox.Username, cfg.Mailbox.IMAPHost)
	if err != nil {
		return nil, err
	}
	src := &mailbox.Source{Cfg: cfg, Password: password}
	return src.Fetch(ctx)
}

func saveBatch(ctx context.Context, st *store.Store, leads []domain.Lead) {
	batchID := uuid.NewString()
	added := 0
	for _, l := range leads {
		ok, err := st.InsertLeadIgnore(ctx, batchID, l)
		if err != nil {
			log.Printf("[store] insert error for %s: %v", l.Email, err)
			continue
		}
		if ok {
			added++
		}
	}
	log.Printf("[store] batch %s: saved %d/%d lead(s)", batchID, added, len(leads))
}
