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

const transnetBaseURL = "https://transnetetenders.azurewebsites.net"

// Transnet scrapes the advertised-tenders table on the Transnet
// eTenders portal. Tender numbers are native upstream IDs, so identity
// here is stable across runs.
type Transnet struct {
	deps    Deps
	baseURL string
}

// NewTransnet builds the Transnet adapter.
func NewTransnet(deps Deps) *Transnet {
	return &Transnet{deps: deps, baseURL: transnetBaseURL}
}

func (a *Transnet) Name() string         { return "transnet" }
func (a *Transnet) Source() model.Source { return model.SourceTransnet }

type transnetRow struct {
	number   string
	title    string
	division string
	closing  string
	link     string
}

// Scrape fetches the advertised tenders page and normalizes each row.
func (a *Transnet) Scrape(ctx context.Context, ref time.Time) ([]RowResult, error) {
	body, err := a.deps.Fetcher.Get(ctx, a.baseURL+"/Home/AdvertisedTenders")
	if err != nil {
		return nil, fmt.Errorf("transnet: %w", err)
	}

	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("transnet: parse page: %w", err)
	}

	table := findFirst(doc, elemWithID("table", "_advertisedTenders"))
	if table == nil {
		return nil, fmt.Errorf("transnet: advertised tenders table not found (layout changed?)")
	}

	var results []RowResult
	for i, tr := range findAll(table, elem("tr")) {
		if i == 0 {
			continue // header
		}
		results = append(results, a.normalize(parseTransnetRow(tr), ref))
	}

	a.deps.Log.Info("scraped transnet", zap.Int("rows", len(results)))
	return results, nil
}

func parseTransnetRow(tr *html.Node) transnetRow {
	cols := findAll(tr, elem("td"))
	if len(cols) < 5 {
		return transnetRow{}
	}
	return transnetRow{
		number:   nodeText(cols[0]),
		title:    nodeText(cols[1]),
		division: nodeText(cols[2]),
		closing:  nodeText(cols[3]),
		link:     firstLink(cols[1]),
	}
}

func (a *Transnet) normalize(row transnetRow, ref time.Time) RowResult {
	title := strings.TrimSpace(row.title)
	if title == "" {
		return SkipRow("empty title")
	}
	if strings.Contains(strings.ToLower(title), "no tenders") {
		return SkipRow("placeholder row")
	}

	buyer := "Transnet"
	if division := strings.TrimSpace(row.division); division != "" {
		buyer = "Transnet " + division
	}

	// Native tender number preferred; weak title hash only as fallback.
	externalID := "TN-" + strings.TrimSpace(row.number)
	if strings.TrimSpace(row.number) == "" {
		externalID = weakID("TN", title)
	}

	closing, ok, days := dates.Normalize(row.closing, ref)
	t := &model.Tender{
		Source:        model.SourceTransnet,
		ExternalID:    externalID,
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
		a.deps.Log.Warn("transnet: unparseable closing date",
			zap.String("raw", row.closing), zap.String("title", title))
	}
	return Ok(t)
}
