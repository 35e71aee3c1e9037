package model

import (
	"fmt"
	"time"
)

// Source identifies an upstream tender portal.
type Source string

const (
	SourceETenders    Source = "etenders"
	SourceEasyTenders Source = "easytenders"
	SourceTransnet    Source = "transnet"
)

// Uncategorized is the category assigned when no rule matches.
const Uncategorized = "uncategorized"

// DedupKey uniquely identifies a tender across runs.
// The same physical tender listed on two portals yields two keys;
// cross-source dedup is intentionally not attempted.
type DedupKey struct {
	Source     Source `json:"source"`
	ExternalID string `json:"external_id"`
}

// String renders the key in "source:external_id" form, used as the
// storage representation in both sqlite and redis backends.
func (k DedupKey) String() string {
	return fmt.Sprintf("%s:%s", k.Source, k.ExternalID)
}

// Tender is the canonical record produced once per distinct upstream listing.
type Tender struct {
	Source     Source `json:"source"`
	ExternalID string `json:"external_id"`

	Title string `json:"title"`
	Buyer string `json:"buyer"`

	Category string `json:"category"`

	// ClosingDate is nil when the upstream date text could not be parsed.
	ClosingDate   *time.Time `json:"closing_date,omitempty"`
	DaysRemaining int        `json:"days_remaining"`

	// Value is the estimated amount in ZAR. Zero means unknown — the
	// current schema cannot distinguish unknown from a confirmed zero.
	Value float64 `json:"value"`

	Description  string `json:"description,omitempty"`
	DocumentLink string `json:"document_link,omitempty"`

	PriorityBuyer bool      `json:"priority_buyer"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// Key returns the global identity key for this tender.
func (t *Tender) Key() DedupKey {
	return DedupKey{Source: t.Source, ExternalID: t.ExternalID}
}

// Valid reports whether the record meets the adapter-boundary contract:
// a non-empty title and buyer and a non-empty external ID.
func (t *Tender) Valid() bool {
	return t.Title != "" && t.Buyer != "" && t.ExternalID != ""
}

// Clamp auto-corrects derived fields prior to commit. DaysRemaining is
// floored at zero: an expired tender is reported as 0 days, never negative.
func (t *Tender) Clamp() {
	if t.DaysRemaining < 0 {
		t.DaysRemaining = 0
	}
}
