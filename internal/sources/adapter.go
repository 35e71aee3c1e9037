// Package sources contains one adapter per upstream tender portal.
// Each adapter fetches raw content and normalizes it into canonical
// Tender records; adding a portal means adding an adapter, never
// touching shared pipeline logic.
package sources

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/praeto/tendertrack/internal/categorize"
	"github.com/praeto/tendertrack/internal/model"
)

// PageFetcher is the opaque fetch capability adapters use. GetPolite
// adds the configured inter-request delay for adapters that issue many
// requests per run.
type PageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	GetPolite(ctx context.Context, url string) ([]byte, error)
}

// RowResult is the outcome of normalizing one raw listing: either a
// canonical tender or a skip with an inspectable reason. A malformed
// row never aborts the adapter's run.
type RowResult struct {
	Tender *model.Tender
	Skip   string
}

// Ok wraps a normalized tender.
func Ok(t *model.Tender) RowResult { return RowResult{Tender: t} }

// SkipRow records a discarded listing with its reason.
func SkipRow(format string, args ...any) RowResult {
	return RowResult{Skip: fmt.Sprintf(format, args...)}
}

// Adapter normalizes one upstream portal into Tender records.
//
// A non-nil error means the whole source was unavailable (timeout,
// structural page change, missing anchor element); the orchestrator
// isolates it and continues with the remaining adapters. Per-row
// problems surface as RowResult skips instead.
type Adapter interface {
	Name() string
	Source() model.Source
	Scrape(ctx context.Context, ref time.Time) ([]RowResult, error)
}

// Registry holds the configured adapter set in registration order.
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register appends an adapter.
func (r *Registry) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// Adapters returns all registered adapters.
func (r *Registry) Adapters() []Adapter { return r.adapters }

// Select returns the adapters whose names appear in names; an empty
// list selects everything.
func (r *Registry) Select(names []string) []Adapter {
	if len(names) == 0 {
		return r.adapters
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Adapter
	for _, a := range r.adapters {
		if wanted[a.Name()] {
			out = append(out, a)
		}
	}
	return out
}

// Deps bundles the collaborators every adapter shares.
type Deps struct {
	Fetcher        PageFetcher
	Categorizer    *categorize.Categorizer
	PriorityBuyers []string
	Log            *zap.Logger
}

// weakID derives a stable identifier from the listing title for portals
// that expose no native ID. This is a weak identity: two genuinely
// distinct listings with identical titles collide and the second is
// treated as a duplicate. Known limitation, kept explicit.
func weakID(prefix, title string) string {
	sum := sha1.Sum([]byte(title))
	return prefix + "-" + hex.EncodeToString(sum[:6])
}
