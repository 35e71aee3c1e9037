package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/praeto/tendertrack/internal/model"
)

const etendersFixture = `
<html><body>
<table id="tendeList">
  <tr><th>#</th><th>Buyer</th><th>Title</th><th>Type</th><th>Published</th><th>Closing</th></tr>
  <tr>
    <td>1</td>
    <td>National Treasury</td>
    <td><a href="/tender/123/view">Short term insurance brokerage services</a></td>
    <td>RFP</td>
    <td>2026-02-01</td>
    <td>Closing Date: 18 Mar</td>
  </tr>
  <tr>
    <td>2</td>
    <td>City of Tshwane</td>
    <td>Construction of a new community hall</td>
    <td>RFQ</td>
    <td>2026-02-02</td>
    <td>2026-04-30</td>
  </tr>
  <tr>
    <td>3</td>
    <td>Dept of Health</td>
    <td></td>
    <td>RFQ</td>
    <td></td>
    <td></td>
  </tr>
  <tr>
    <td>4</td>
    <td>Dept of Health</td>
    <td>Loading...</td>
    <td></td>
    <td></td>
    <td></td>
  </tr>
  <tr>
    <td>5</td>
    <td></td>
    <td>Supply of stationery</td>
    <td>RFQ</td>
    <td></td>
    <td>2026-03-01</td>
  </tr>
</table>
</body></html>`

func TestETendersScrape(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"opportunities": etendersFixture}}
	a := NewETenders(testDeps(f), "", "")

	results, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, results, 5)

	first := results[0]
	require.Empty(t, first.Skip)
	tender := first.Tender
	require.Equal(t, model.SourceETenders, tender.Source)
	require.Equal(t, "Short term insurance brokerage services", tender.Title)
	require.Equal(t, "National Treasury", tender.Buyer)
	require.Equal(t, "insurance", tender.Category)
	require.True(t, tender.PriorityBuyer)
	require.Equal(t, "https://www.etenders.gov.za/tender/123/view", tender.DocumentLink)

	// "18 Mar" lands in the current year relative to the reference date.
	require.NotNil(t, tender.ClosingDate)
	require.Equal(t, time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC), *tender.ClosingDate)
	require.Equal(t, 30, tender.DaysRemaining)

	second := results[1].Tender
	require.Equal(t, "construction", second.Category)
	require.False(t, second.PriorityBuyer)

	require.Equal(t, "empty title", results[2].Skip)
	require.Equal(t, "placeholder row", results[3].Skip)
	require.Contains(t, results[4].Skip, "empty buyer")
}

func TestETendersStableIDs(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"opportunities": etendersFixture}}
	a := NewETenders(testDeps(f), "", "")

	first, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	second, err := a.Scrape(context.Background(), testRef.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Equal(t, first[0].Tender.ExternalID, second[0].Tender.ExternalID)
	require.Regexp(t, `^ET-[0-9a-f]{12}$`, first[0].Tender.ExternalID)
}

func TestETendersMissingTable(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"": "<html><body><p>maintenance</p></body></html>"}}
	a := NewETenders(testDeps(f), "", "")

	_, err := a.Scrape(context.Background(), testRef)
	require.Error(t, err)
	require.Contains(t, err.Error(), "table not found")
}

func TestETendersFetchError(t *testing.T) {
	f := &stubFetcher{err: context.DeadlineExceeded}
	a := NewETenders(testDeps(f), "", "")

	_, err := a.Scrape(context.Background(), testRef)
	require.Error(t, err)
}
