package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/praeto/tendertrack/internal/model"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "tenders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTender(id string) model.Tender {
	closing := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)
	return model.Tender{
		Source:        model.SourceETenders,
		ExternalID:    id,
		Title:         "Provision of insurance brokerage services",
		Buyer:         "National Treasury",
		Category:      "insurance",
		ClosingDate:   &closing,
		DaysRemaining: 30,
		Value:         150000,
		Description:   "Provision of insurance brokerage services",
		DocumentLink:  "https://www.etenders.gov.za/doc/1",
		PriorityBuyer: true,
		ScrapedAt:     time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC),
	}
}

func TestSQLite_EmptyKnownKeys(t *testing.T) {
	s := newTestStore(t)

	known, err := s.KnownKeys(context.Background())
	require.NoError(t, err)
	require.Empty(t, known)
}

func TestSQLite_AppendCommitsRowsAndKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := []model.Tender{sampleTender("T-100"), sampleTender("T-101")}
	require.NoError(t, s.AppendTenders(ctx, batch))

	known, err := s.KnownKeys(ctx)
	require.NoError(t, err)
	require.Len(t, known, 2)
	require.Contains(t, known, model.DedupKey{Source: model.SourceETenders, ExternalID: "T-100"})
	require.Contains(t, known, model.DedupKey{Source: model.SourceETenders, ExternalID: "T-101"})
}

func TestSQLite_AppendIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendTenders(ctx, []model.Tender{sampleTender("T-100")}))

	// Second batch contains a primary-key conflict on its last row; the
	// whole batch must roll back, including the key of the first row.
	bad := []model.Tender{sampleTender("T-200"), sampleTender("T-100")}
	require.Error(t, s.AppendTenders(ctx, bad))

	known, err := s.KnownKeys(ctx)
	require.NoError(t, err)
	require.Len(t, known, 1, "failed batch must not commit any keys")
	require.NotContains(t, known, model.DedupKey{Source: model.SourceETenders, ExternalID: "T-200"})
}

func TestSQLite_NilClosingDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tender := sampleTender("T-300")
	tender.ClosingDate = nil
	tender.DaysRemaining = 0

	require.NoError(t, s.AppendTenders(ctx, []model.Tender{tender}))

	known, err := s.KnownKeys(ctx)
	require.NoError(t, err)
	require.Contains(t, known, tender.Key())
}

func TestSQLite_MarkAlerted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tender := sampleTender("T-400")
	require.NoError(t, s.AppendTenders(ctx, []model.Tender{tender}))
	require.NoError(t, s.MarkAlerted(ctx, tender.Key()))

	var sent int
	err := s.db.QueryRowContext(ctx,
		`SELECT alert_sent FROM tenders WHERE source = ? AND external_id = ?`,
		tender.Source, tender.ExternalID).Scan(&sent)
	require.NoError(t, err)
	require.Equal(t, 1, sent)
}

func TestSQLite_KeysPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenders.db")
	ctx := context.Background()

	s1, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.AppendTenders(ctx, []model.Tender{sampleTender("T-500")}))
	require.NoError(t, s1.Close())

	s2, err := NewSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	known, err := s2.KnownKeys(ctx)
	require.NoError(t, err)
	require.Contains(t, known, model.DedupKey{Source: model.SourceETenders, ExternalID: "T-500"})
}
