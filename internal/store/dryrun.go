package store

import (
	"context"

	"github.com/praeto/tendertrack/internal/model"
)

// DryRun reads dedup state from the base store but writes nothing, so a
// run can be previewed without touching history.
func DryRun(base Store) Store {
	return &dryRunStore{base: base}
}

type dryRunStore struct {
	base Store
}

func (s *dryRunStore) KnownKeys(ctx context.Context) (map[model.DedupKey]struct{}, error) {
	return s.base.KnownKeys(ctx)
}

func (s *dryRunStore) AppendTenders(ctx context.Context, tenders []model.Tender) error {
	return nil
}

func (s *dryRunStore) MarkAlerted(ctx context.Context, key model.DedupKey) error {
	return nil
}

func (s *dryRunStore) Close() error {
	return s.base.Close()
}
