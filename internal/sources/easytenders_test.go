package sources

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/praeto/tendertrack/internal/model"
)

func easyTendersPage(cards ...string) string {
	page := "<html><body><div class=\"results\">"
	for _, c := range cards {
		page += c
	}
	return page + "</div></body></html>"
}

func easyTendersCardHTML(title, buyer, closing string) string {
	return fmt.Sprintf(`
<div class="tender card">
  <a href="/tenders/%s"><span class="text-dark font-size-14">%s</span></a>
  <span class="text-primary">%s</span>
  <div class="closing-date">%s</div>
</div>`, title, title, buyer, closing)
}

func testEasyTendersRules() []model.CategoryRule {
	return []model.CategoryRule{
		{Name: "insurance", Keywords: []string{"insurance", "broker"}},
		{Name: "construction", Keywords: []string{"construction", "building"}},
	}
}

func TestEasyTendersScrape(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"search=insurance": easyTendersPage(
			easyTendersCardHTML("Insurance portfolio management", "ERWAT", "Closes: 2026-03-20"),
		),
		"search=construction": easyTendersPage(
			easyTendersCardHTML("Building renovation phase 2", "Joburg Water", "2 April 2026"),
		),
	}}
	a := NewEasyTenders(testDeps(f), testEasyTendersRules(), 1)

	results, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, f.calls, 2)

	first := results[0].Tender
	require.Equal(t, model.SourceEasyTenders, first.Source)
	require.Equal(t, "Insurance portfolio management", first.Title)
	require.Equal(t, "ERWAT", first.Buyer)
	require.Equal(t, "insurance", first.Category)
	require.True(t, first.PriorityBuyer)
	require.Regexp(t, `^EZ-[0-9a-f]{12}$`, first.ExternalID)
	require.NotNil(t, first.ClosingDate)
	require.Equal(t, 32, first.DaysRemaining)

	second := results[1].Tender
	require.Equal(t, "construction", second.Category)
	require.False(t, second.PriorityBuyer)
	require.Equal(t, "https://easytenders.co.za/tenders/Building renovation phase 2", second.DocumentLink)
}

func TestEasyTendersSearchTerms(t *testing.T) {
	rules := []model.CategoryRule{
		{Name: "insurance", Keywords: []string{"Insurance", "broker", "underwriting"}},
		{Name: "advisory", Keywords: []string{"advisory", "insurance"}},
	}
	a := NewEasyTenders(testDeps(&stubFetcher{}), rules, 2)

	// Lowercased, deduplicated across rules, declaration order kept.
	require.Equal(t, []string{"insurance", "broker", "advisory"}, a.keywords)
}

func TestEasyTendersDedupWithinRun(t *testing.T) {
	// The same card comes back for both search terms; it must be
	// normalized only once.
	card := easyTendersCardHTML("Insurance and building maintenance", "ERWAT", "2026-03-20")
	f := &stubFetcher{pages: map[string]string{"search=": easyTendersPage(card)}}
	a := NewEasyTenders(testDeps(f), testEasyTendersRules(), 1)

	results, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, f.calls, 2)
	require.Len(t, results, 1)
}

func TestEasyTendersPartialFailure(t *testing.T) {
	// One search term has no page and fails; the run still succeeds on
	// the remaining term.
	f := &stubFetcher{pages: map[string]string{
		"search=insurance": easyTendersPage(
			easyTendersCardHTML("Broker services panel", "SANRAL", "2026-05-01"),
		),
	}}
	a := NewEasyTenders(testDeps(f), testEasyTendersRules(), 1)

	results, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestEasyTendersAllSearchesFailed(t *testing.T) {
	f := &stubFetcher{err: fmt.Errorf("boom")}
	a := NewEasyTenders(testDeps(f), testEasyTendersRules(), 1)

	_, err := a.Scrape(context.Background(), testRef)
	require.Error(t, err)
	require.Contains(t, err.Error(), "all 2 searches failed")
}

func TestEasyTendersSkipsIncompleteCards(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"search=": easyTendersPage(
			easyTendersCardHTML("", "ERWAT", "2026-03-20"),
			easyTendersCardHTML("Insurance audit", "", "2026-03-20"),
		),
	}}
	a := NewEasyTenders(testDeps(f), testEasyTendersRules(), 1)

	results, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "empty title", results[0].Skip)
	require.Contains(t, results[1].Skip, "empty buyer")
}
