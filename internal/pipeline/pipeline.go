// Package pipeline orchestrates one ingestion run: scrape all portals,
// deduplicate against history, filter through the active policy,
// persist atomically and alert on what survived.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/praeto/tendertrack/internal/alert"
	"github.com/praeto/tendertrack/internal/llm"
	"github.com/praeto/tendertrack/internal/model"
	"github.com/praeto/tendertrack/internal/policy"
	"github.com/praeto/tendertrack/internal/sources"
	"github.com/praeto/tendertrack/internal/store"
	"github.com/praeto/tendertrack/internal/worker"
)

// Orchestrator wires the run stages together. Every collaborator is an
// interface or pure component, so tests drive the whole machine with
// fakes.
type Orchestrator struct {
	adapters []sources.Adapter
	store    store.Store
	engine   *policy.Engine
	alerter  alert.Alerter
	digest   llm.Provider // nil when disabled
	workers  int
	log      *zap.Logger

	now func() time.Time
}

// Options carries the optional orchestrator knobs.
type Options struct {
	// Workers bounds concurrent adapter scrapes. <= 0 means sequential.
	Workers int

	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// New builds an orchestrator.
func New(adapters []sources.Adapter, st store.Store, engine *policy.Engine,
	alerter alert.Alerter, digest llm.Provider, log *zap.Logger, opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Orchestrator{
		adapters: adapters,
		store:    st,
		engine:   engine,
		alerter:  alerter,
		digest:   digest,
		workers:  opts.Workers,
		log:      log,
		now:      now,
	}
}

// scrapeResult pairs one adapter's output with its failure, if any.
type scrapeResult struct {
	rows []sources.RowResult
	err  error
}

// Run executes one complete ingestion cycle and always returns a
// report, even when every stage before reporting failed.
//
// Ordering is strict: dedup keys are committed in the same transaction
// as the tender rows, and alerts fire only after that commit succeeds.
// A persist failure therefore means the next run sees the same
// candidates again, which beats alerting on data that was never saved.
func (o *Orchestrator) Run(ctx context.Context) *model.RunReport {
	report := model.NewRunReport(string(o.engine.Mode()))
	defer func() { report.FinishedAt = o.now() }()

	known, err := o.store.KnownKeys(ctx)
	if err != nil {
		// Without the key set every candidate would look new; aborting
		// beats duplicate alerts.
		o.log.Error("loading dedup keys failed", zap.Error(err))
		report.PersistError = err.Error()
		return report
	}
	o.log.Info("run started",
		zap.String("policy", report.Policy),
		zap.Int("known_keys", len(known)),
		zap.Int("adapters", len(o.adapters)))

	results := o.scrapeAll(ctx, report)
	accepted := o.sift(results, known, report)

	if len(accepted) > 0 {
		batch := make([]model.Tender, len(accepted))
		for i, t := range accepted {
			batch[i] = *t
		}
		if err := o.store.AppendTenders(ctx, batch); err != nil {
			// Accepted counts stay in the report as "would have been
			// written"; PersistError signals none of it was.
			o.log.Error("persisting batch failed, alerts suppressed",
				zap.Int("batch", len(batch)), zap.Error(err))
			report.PersistError = err.Error()
			return report
		}
		o.sendAlerts(ctx, accepted, report)
	}

	o.buildDigest(ctx, accepted, report)
	return report
}

// scrapeAll runs every adapter through the worker pool and returns the
// results indexed by adapter, preserving registration order.
func (o *Orchestrator) scrapeAll(ctx context.Context, report *model.RunReport) []scrapeResult {
	ref := o.now()
	results := make([]scrapeResult, len(o.adapters))

	pool := worker.NewPool(o.workers)
	for i, a := range o.adapters {
		i, a := i, a
		pool.Go(ctx, func(ctx context.Context) {
			rows, err := a.Scrape(ctx, ref)
			results[i] = scrapeResult{rows: rows, err: err}
		})
	}
	pool.Wait()

	for i, res := range results {
		if res.err != nil {
			o.log.Warn("source unavailable",
				zap.String("source", o.adapters[i].Name()), zap.Error(res.err))
			report.SourceFailures = append(report.SourceFailures, model.SourceFailure{
				Source: o.adapters[i].Source(),
				Error:  res.err.Error(),
			})
		}
	}
	return results
}

// sift applies dedup and the retention policy to the scraped rows.
// Adapters are processed in registration order and rows in page order,
// so when the same key shows up twice in one run the first occurrence
// wins deterministically.
func (o *Orchestrator) sift(results []scrapeResult, known map[model.DedupKey]struct{}, report *model.RunReport) []*model.Tender {
	seen := make(map[model.DedupKey]struct{}, len(known))
	var accepted []*model.Tender

	for _, res := range results {
		for _, row := range res.rows {
			if row.Skip != "" {
				report.SkippedRows++
				continue
			}
			t := row.Tender
			report.Candidates++

			if !t.Valid() {
				report.SkippedRows++
				report.Candidates--
				continue
			}

			key := t.Key()
			if _, dup := known[key]; dup {
				report.Duplicates++
				continue
			}
			if _, dup := seen[key]; dup {
				report.Duplicates++
				continue
			}
			seen[key] = struct{}{}

			t.Clamp()
			if !o.engine.Accept(t) {
				report.Discarded++
				continue
			}
			accepted = append(accepted, t)
			report.AddAccepted(t)
		}
	}
	return accepted
}

// sendAlerts notifies on the alert-worthy subset of the freshly
// persisted batch. Each failure is counted and logged; delivery is
// never retried within the run.
func (o *Orchestrator) sendAlerts(ctx context.Context, accepted []*model.Tender, report *model.RunReport) {
	if o.alerter == nil || !o.alerter.Enabled() {
		o.log.Debug("alerter disabled, skipping notifications")
		return
	}

	for _, t := range accepted {
		if !o.engine.ShouldAlert(t) {
			continue
		}
		if err := o.alerter.Send(ctx, t); err != nil {
			report.AlertsFailed++
			o.log.Warn("alert delivery failed",
				zap.String("tender", t.Key().String()), zap.Error(err))
			continue
		}
		report.AlertsSent++
		if err := o.store.MarkAlerted(ctx, t.Key()); err != nil {
			o.log.Warn("marking alert flag failed",
				zap.String("tender", t.Key().String()), zap.Error(err))
		}
	}
}

// buildDigest attaches the optional LLM summary. It runs last and its
// failure only costs the digest itself.
func (o *Orchestrator) buildDigest(ctx context.Context, accepted []*model.Tender, report *model.RunReport) {
	if o.digest == nil {
		return
	}
	digest, err := o.digest.Digest(ctx, report, accepted)
	if err != nil {
		o.log.Warn("digest generation failed", zap.Error(err))
		return
	}
	report.Digest = digest
}
