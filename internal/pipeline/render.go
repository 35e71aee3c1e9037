package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/praeto/tendertrack/internal/model"
)

const timeRound = 10 * time.Millisecond

// Renderer writes the run report to the console and, optionally, to a
// JSON file.
type Renderer struct {
	out     io.Writer
	verbose bool
}

// NewRenderer builds a renderer writing the summary to out.
func NewRenderer(out io.Writer, verbose bool) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out, verbose: verbose}
}

// RenderJSON writes the full report as indented JSON to path.
func (r *Renderer) RenderJSON(report *model.RunReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("render: marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints the human-readable run summary.
func (r *Renderer) RenderSummary(report *model.RunReport) {
	fmt.Fprintf(r.out, "\nRun finished (%s policy) in %s\n",
		report.Policy, report.FinishedAt.Sub(report.StartedAt).Round(timeRound))
	fmt.Fprintf(r.out, "  candidates: %d  new: %d  duplicates: %d  discarded: %d  skipped rows: %d\n",
		report.Candidates, report.Accepted, report.Duplicates, report.Discarded, report.SkippedRows)

	if report.Accepted > 0 {
		labels := make([]string, 0, len(report.ByCategory))
		for label := range report.ByCategory {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			stat := report.ByCategory[label]
			if stat.TotalValue > 0 {
				fmt.Fprintf(r.out, "    %-20s %3d  (R%.2f)\n", label, stat.Count, stat.TotalValue)
			} else {
				fmt.Fprintf(r.out, "    %-20s %3d\n", label, stat.Count)
			}
		}
	}

	if report.AlertsSent > 0 || report.AlertsFailed > 0 {
		fmt.Fprintf(r.out, "  alerts: %d sent, %d failed\n", report.AlertsSent, report.AlertsFailed)
	}

	for _, f := range report.SourceFailures {
		fmt.Fprintf(r.out, "  source failed: %s: %s\n", f.Source, f.Error)
	}
	if report.PersistError != "" {
		fmt.Fprintf(r.out, "  PERSIST FAILED: %s (nothing written, no alerts sent)\n", report.PersistError)
	}

	if report.Digest != "" && r.verbose {
		fmt.Fprintf(r.out, "\n%s\n", report.Digest)
	}
}
