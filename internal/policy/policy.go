// Package policy decides which newly-seen tenders are retained and
// which trigger alerts. Two generations of the same engine exist, both
// pure predicate evaluation over normalized Tender fields.
package policy

import (
	"fmt"

	"github.com/praeto/tendertrack/internal/model"
)

// Mode selects the retention/alert generation.
type Mode string

const (
	// ModeBroad retains everything except uncategorized non-priority
	// noise; alerts on priority buyers and on the insurance category.
	ModeBroad Mode = "broad"

	// ModeNarrow retains only insurance tenders and alerts on all of
	// them, regardless of priority-buyer status.
	ModeNarrow Mode = "narrow"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBroad, ModeNarrow:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown policy mode %q (want broad or narrow)", s)
	}
}

// Engine evaluates the retention and alert predicates.
type Engine struct {
	mode      Mode
	insurance string
}

// NewEngine builds an engine. insuranceCategory names the category that
// narrow mode retains and broad mode always alerts on.
func NewEngine(mode Mode, insuranceCategory string) *Engine {
	return &Engine{mode: mode, insurance: insuranceCategory}
}

// Mode returns the active generation.
func (e *Engine) Mode() Mode { return e.mode }

// Accept reports whether the tender is retained.
func (e *Engine) Accept(t *model.Tender) bool {
	switch e.mode {
	case ModeNarrow:
		return t.Category == e.insurance
	default:
		// Broad: discard only uncategorized tenders from non-priority
		// buyers.
		return t.Category != model.Uncategorized || t.PriorityBuyer
	}
}

// ShouldAlert reports whether an accepted tender triggers an alert.
// Callers must only pass tenders for which Accept returned true.
func (e *Engine) ShouldAlert(t *model.Tender) bool {
	switch e.mode {
	case ModeNarrow:
		return true
	default:
		return t.PriorityBuyer || t.Category == e.insurance
	}
}
