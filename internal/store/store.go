// Package store persists accepted tenders and the dedup key set.
//
// The sqlite backend is the default; a redis overlay can hold the key
// set when several runners share dedup state. In both arrangements keys
// are committed together with the tender batch, so a run that dies
// mid-way never leaves dedup state ahead of persisted data.
package store

import (
	"context"

	"github.com/praeto/tendertrack/internal/model"
)

// Store is the persistence collaborator: an append-only tender table
// plus the monotonically growing set of seen dedup keys.
type Store interface {
	// KnownKeys loads every previously committed dedup key. Called once
	// per run, before scraping; the result is read-only thereafter.
	KnownKeys(ctx context.Context) (map[model.DedupKey]struct{}, error)

	// AppendTenders writes the accepted batch and commits its keys
	// atomically. A failure commits neither rows nor keys.
	AppendTenders(ctx context.Context, tenders []model.Tender) error

	// MarkAlerted flips the alert-sent flag for a persisted tender.
	MarkAlerted(ctx context.Context, key model.DedupKey) error

	Close() error
}

// KeySet is a standalone dedup key store, used as a shared overlay in
// front of the sqlite tables.
type KeySet interface {
	Known(ctx context.Context) (map[model.DedupKey]struct{}, error)
	Commit(ctx context.Context, keys []model.DedupKey) error
}

// WithKeySet layers a shared key set over a base store. Keys are read
// from the overlay (union with the base, so a fresh overlay inherits
// local history) and committed to both.
func WithKeySet(base Store, keys KeySet) Store {
	return &overlayStore{base: base, keys: keys}
}

type overlayStore struct {
	base Store
	keys KeySet
}

func (s *overlayStore) KnownKeys(ctx context.Context) (map[model.DedupKey]struct{}, error) {
	known, err := s.base.KnownKeys(ctx)
	if err != nil {
		return nil, err
	}
	shared, err := s.keys.Known(ctx)
	if err != nil {
		return nil, err
	}
	for k := range shared {
		known[k] = struct{}{}
	}
	return known, nil
}

func (s *overlayStore) AppendTenders(ctx context.Context, tenders []model.Tender) error {
	if err := s.base.AppendTenders(ctx, tenders); err != nil {
		return err
	}
	keys := make([]model.DedupKey, len(tenders))
	for i := range tenders {
		keys[i] = tenders[i].Key()
	}
	return s.keys.Commit(ctx, keys)
}

func (s *overlayStore) MarkAlerted(ctx context.Context, key model.DedupKey) error {
	return s.base.MarkAlerted(ctx, key)
}

func (s *overlayStore) Close() error {
	return s.base.Close()
}
