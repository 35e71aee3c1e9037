package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/praeto/tendertrack/internal/categorize"
	"github.com/praeto/tendertrack/internal/dates"
	"github.com/praeto/tendertrack/internal/model"
)

const etendersBaseURL = "https://www.etenders.gov.za"

// ETenders scrapes the public opportunity list on eTenders.gov.za.
// Portal authentication is out of scope; configured credentials are
// ignored beyond a debug note and only public rows are read.
type ETenders struct {
	deps     Deps
	baseURL  string
	hasCreds bool
}

// NewETenders builds the eTenders adapter.
func NewETenders(deps Deps, username, password string) *ETenders {
	return &ETenders{
		deps:     deps,
		baseURL:  etendersBaseURL,
		hasCreds: username != "" && password != "",
	}
}

func (a *ETenders) Name() string         { return "etenders" }
func (a *ETenders) Source() model.Source { return model.SourceETenders }

// etendersRow holds the raw cell text of one table row.
type etendersRow struct {
	buyer   string
	title   string
	closing string
	link    string
}

// Scrape fetches the opportunities table and normalizes each row.
func (a *ETenders) Scrape(ctx context.Context, ref time.Time) ([]RowResult, error) {
	if a.hasCreds {
		a.deps.Log.Debug("etenders credentials configured; authenticated scraping is unsupported, reading public opportunities")
	}

	body, err := a.deps.Fetcher.Get(ctx, a.baseURL+"/Home/opportunities?id=1")
	if err != nil {
		return nil, fmt.Errorf("etenders: %w", err)
	}

	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("etenders: parse page: %w", err)
	}

	table := findFirst(doc, elemWithID("table", "tendeList"))
	if table == nil {
		// The structural anchor is gone: treat as a layout change, not
		// an empty result set.
		return nil, fmt.Errorf("etenders: opportunities table not found (layout changed?)")
	}

	var results []RowResult
	for i, tr := range findAll(table, elem("tr")) {
		if i == 0 {
			continue // header
		}
		results = append(results, a.normalize(parseETendersRow(tr), ref))
	}

	a.deps.Log.Info("scraped etenders",
		zap.Int("rows", len(results)))
	return results, nil
}

func parseETendersRow(tr *html.Node) etendersRow {
	cols := findAll(tr, elem("td"))
	if len(cols) < 6 {
		return etendersRow{}
	}
	return etendersRow{
		buyer:   nodeText(cols[1]),
		title:   nodeText(cols[2]),
		closing: nodeText(cols[5]),
		link:    firstLink(cols[2]),
	}
}

// normalize converts one raw row into a canonical tender or a skip.
func (a *ETenders) normalize(row etendersRow, ref time.Time) RowResult {
	title := strings.TrimSpace(row.title)
	if title == "" {
		return SkipRow("empty title")
	}
	if strings.Contains(strings.ToLower(title), "loading") {
		return SkipRow("placeholder row")
	}
	buyer := strings.TrimSpace(row.buyer)
	if buyer == "" {
		return SkipRow("empty buyer for %q", title)
	}

	closing, ok, days := dates.Normalize(row.closing, ref)
	t := &model.Tender{
		Source:        model.SourceETenders,
		ExternalID:    weakID("ET", title),
		Title:         title,
		Buyer:         buyer,
		Category:      a.deps.Categorizer.Categorize(title),
		DaysRemaining: days,
		Description:   title,
		DocumentLink:  absoluteURL(a.baseURL, row.link),
		PriorityBuyer: categorize.IsPriorityBuyer(buyer, a.deps.PriorityBuyers),
		ScrapedAt:     ref,
	}
	if ok {
		t.ClosingDate = &closing
	} else if row.closing != "" {
		a.deps.Log.Warn("etenders: unparseable closing date",
			zap.String("raw", row.closing), zap.String("title", title))
	}
	return Ok(t)
}
