package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/praeto/tendertrack/internal/model"
)

const transnetFixture = `
<html><body>
<table id="_advertisedTenders">
  <tr><th>Number</th><th>Description</th><th>Division</th><th>Closing</th><th>Status</th></tr>
  <tr>
    <td>TFR-2026-0042</td>
    <td><a href="/Tender/Details/42">Marine insurance cover for port operations</a></td>
    <td>National Ports Authority</td>
    <td>20 March 2026</td>
    <td>Open</td>
  </tr>
  <tr>
    <td></td>
    <td>Building maintenance at Durban depot</td>
    <td></td>
    <td>2026-04-15</td>
    <td>Open</td>
  </tr>
  <tr>
    <td></td>
    <td>No tenders available at this time</td>
    <td></td>
    <td></td>
    <td></td>
  </tr>
</table>
</body></html>`

func TestTransnetScrape(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"AdvertisedTenders": transnetFixture}}
	a := NewTransnet(testDeps(f))

	results, err := a.Scrape(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, results, 3)

	first := results[0].Tender
	require.Equal(t, model.SourceTransnet, first.Source)
	require.Equal(t, "TN-TFR-2026-0042", first.ExternalID)
	require.Equal(t, "Marine insurance cover for port operations", first.Title)
	require.Equal(t, "Transnet National Ports Authority", first.Buyer)
	require.Equal(t, "insurance", first.Category)
	require.Equal(t, "https://transnetetenders.azurewebsites.net/Tender/Details/42", first.DocumentLink)
	require.NotNil(t, first.ClosingDate)
	require.Equal(t, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), *first.ClosingDate)
	require.Equal(t, 32, first.DaysRemaining)

	// No native number and no division: weak ID and the bare group name.
	second := results[1].Tender
	require.Regexp(t, `^TN-[0-9a-f]{12}$`, second.ExternalID)
	require.Equal(t, "Transnet", second.Buyer)
	require.Equal(t, "construction", second.Category)

	require.Equal(t, "placeholder row", results[2].Skip)
}

func TestTransnetMissingTable(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"": "<html><body></body></html>"}}
	a := NewTransnet(testDeps(f))

	_, err := a.Scrape(context.Background(), testRef)
	require.Error(t, err)
	require.Contains(t, err.Error(), "table not found")
}
