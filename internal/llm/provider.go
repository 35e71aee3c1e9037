// Package llm generates an optional natural-language digest of a run.
// The digest is decorative: it is produced after every filtering,
// persistence and alerting decision has been made and can never change
// any of them.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/praeto/tendertrack/internal/model"
)

// Provider turns a finished run report into a short prose digest.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Digest summarizes the run. Failures are reported, not fatal: the
	// caller logs the error and ships the report without a digest.
	Digest(ctx context.Context, report *model.RunReport, accepted []*model.Tender) (string, error)
}

// BuildPrompt constructs the digest prompt. Only aggregate numbers and
// accepted titles go in; the model is told not to invent anything else.
func BuildPrompt(report *model.RunReport, accepted []*model.Tender) string {
	var sb strings.Builder
	sb.WriteString("Summarize this tender ingestion run in 2-3 sentences for a busy bid manager.\n")
	sb.WriteString("Use ONLY the facts below. Do not invent tenders, buyers, amounts or dates.\n\n")

	fmt.Fprintf(&sb, "Policy: %s\n", report.Policy)
	fmt.Fprintf(&sb, "Candidates scraped: %d\n", report.Candidates)
	fmt.Fprintf(&sb, "New tenders accepted: %d\n", report.Accepted)
	fmt.Fprintf(&sb, "Duplicates skipped: %d\n", report.Duplicates)
	fmt.Fprintf(&sb, "Discarded by policy: %d\n", report.Discarded)
	fmt.Fprintf(&sb, "Alerts sent: %d\n", report.AlertsSent)

	if len(report.ByCategory) > 0 {
		sb.WriteString("\nAccepted by category:\n")
		labels := make([]string, 0, len(report.ByCategory))
		for label := range report.ByCategory {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&sb, "- %s: %d\n", label, report.ByCategory[label].Count)
		}
	}

	if len(report.SourceFailures) > 0 {
		sb.WriteString("\nSource failures:\n")
		for _, f := range report.SourceFailures {
			fmt.Fprintf(&sb, "- %s: %s\n", f.Source, f.Error)
		}
	}

	if len(accepted) > 0 {
		sb.WriteString("\nNew tenders:\n")
		for i, t := range accepted {
			if i >= 15 {
				fmt.Fprintf(&sb, "... and %d more\n", len(accepted)-15)
				break
			}
			fmt.Fprintf(&sb, "- %q (%s, closes in %d days)\n", t.Title, t.Buyer, t.DaysRemaining)
		}
	}

	return sb.String()
}
