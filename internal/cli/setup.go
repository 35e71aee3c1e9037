package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/praeto/tendertrack/internal/alert"
	"github.com/praeto/tendertrack/internal/cache"
	"github.com/praeto/tendertrack/internal/categorize"
	"github.com/praeto/tendertrack/internal/fetch"
	"github.com/praeto/tendertrack/internal/llm"
	"github.com/praeto/tendertrack/internal/model"
	"github.com/praeto/tendertrack/internal/pipeline"
	"github.com/praeto/tendertrack/internal/policy"
	"github.com/praeto/tendertrack/internal/sources"
	"github.com/praeto/tendertrack/internal/store"
)

// runtime bundles everything a single ingestion run needs.
type runtime struct {
	orch  *pipeline.Orchestrator
	close func()
}

// buildRuntime assembles the full pipeline from configuration: page
// cache, fetcher, adapters, store, policy engine, alerter and the
// optional digest provider.
func buildRuntime(ctx context.Context, cfg *model.Config, log *zap.Logger, dryRun bool, sourceNames []string) (*runtime, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	st, err := buildStore(ctx, cfg, dryRun)
	if err != nil {
		return nil, err
	}

	var pages cache.Cache
	if cfg.Cache.Enabled {
		pages = cache.NewLayered(cfg.Cache.TTL, cacheDir(cfg))
	}
	fetcher := fetch.New(cfg.HTTP, pages, cfg.Cache.TTL, log)

	deps := sources.Deps{
		Fetcher:        fetcher,
		Categorizer:    categorize.New(cfg.Categories),
		PriorityBuyers: cfg.PriorityBuyers,
		Log:            log,
	}

	registry := sources.NewRegistry()
	registry.Register(sources.NewETenders(deps, cfg.Sources.ETendersUsername, cfg.Sources.ETendersPassword))
	registry.Register(sources.NewEasyTenders(deps, cfg.Categories, cfg.Sources.KeywordsPerCategory))
	registry.Register(sources.NewTransnet(deps))

	enabled := sourceNames
	if len(enabled) == 0 {
		enabled = cfg.Sources.Enabled
	}
	adapters := registry.Select(enabled)
	if len(adapters) == 0 {
		st.Close()
		return nil, fmt.Errorf("no sources selected (have: etenders, easytenders, transnet)")
	}

	var alerter alert.Alerter = alert.NewSMTP(cfg.Alerts, log)
	if dryRun {
		alerter = alert.NewSMTP(model.AlertConfig{}, log) // never configured, never sends
	}

	digest, err := llm.New(cfg.Digest)
	if err != nil {
		log.Warn("digest provider unavailable", zap.Error(err))
	}

	orch := pipeline.New(adapters, st, engine, alerter, digest, log, pipeline.Options{
		Workers: cfg.Concurrency.Workers,
	})
	return &runtime{orch: orch, close: func() { st.Close() }}, nil
}

func buildEngine(cfg *model.Config) (*policy.Engine, error) {
	mode, err := policy.ParseMode(cfg.Policy.Mode)
	if err != nil {
		return nil, err
	}
	return policy.NewEngine(mode, cfg.Policy.InsuranceCategory), nil
}

// buildStore opens sqlite, layers the redis key set over it when
// configured, and wraps everything read-only for dry runs.
func buildStore(ctx context.Context, cfg *model.Config, dryRun bool) (store.Store, error) {
	path := cfg.Store.SQLitePath
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return nil, err
		}
	}

	sqlite, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	var st store.Store = sqlite

	if cfg.Store.RedisURL != "" {
		keys, err := store.NewRedisKeys(ctx, cfg.Store.RedisURL)
		if err != nil {
			st.Close()
			return nil, err
		}
		st = store.WithKeySet(st, keys)
	}

	if dryRun {
		st = store.DryRun(st)
	}
	return st, nil
}

func newRenderer(cfg *model.Config) *pipeline.Renderer {
	return pipeline.NewRenderer(os.Stdout, cfg.Output.Verbose)
}

func cacheDir(cfg *model.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tendertrack-cache"
	}
	return filepath.Join(home, ".tendertrack", "cache")
}
