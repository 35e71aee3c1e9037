package model

import "time"

// RunReport is the aggregate outcome of one ingestion run. It is always
// produced, even when every source failed or persistence aborted.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Policy     string    `json:"policy"`

	// Candidates counted across all adapters, before dedup/filtering.
	Candidates int `json:"candidates"`

	Accepted    int `json:"accepted"`
	Duplicates  int `json:"duplicates"`
	Discarded   int `json:"discarded"`
	SkippedRows int `json:"skipped_rows"`

	AlertsSent   int `json:"alerts_sent"`
	AlertsFailed int `json:"alerts_failed"`

	ByCategory map[string]CategoryStat `json:"by_category"`

	SourceFailures []SourceFailure `json:"source_failures,omitempty"`

	// PersistError is set when the batch write failed. In that case no
	// dedup keys were committed and no alerts fired; the next run will
	// re-attempt the same candidates.
	PersistError string `json:"persist_error,omitempty"`

	// Digest is an optional LLM-generated summary of the run. It is
	// produced after all filtering and alerting decisions and never
	// influences them.
	Digest string `json:"digest,omitempty"`
}

// CategoryStat aggregates accepted tenders for one category.
type CategoryStat struct {
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// SourceFailure records a whole-source scrape failure. The run continues
// past these; they exist for observability only.
type SourceFailure struct {
	Source Source `json:"source"`
	Error  string `json:"error"`
}

// NewRunReport initialises a report with a started timestamp and empty maps.
func NewRunReport(policy string) *RunReport {
	return &RunReport{
		StartedAt:  time.Now().UTC(),
		Policy:     policy,
		ByCategory: make(map[string]CategoryStat),
	}
}

// AddAccepted folds an accepted tender into the per-category stats.
func (r *RunReport) AddAccepted(t *Tender) {
	r.Accepted++
	stat := r.ByCategory[t.Category]
	stat.Count++
	stat.TotalValue += t.Value
	r.ByCategory[t.Category] = stat
}
