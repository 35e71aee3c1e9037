package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/praeto/tendertrack/internal/categorize"
	"github.com/praeto/tendertrack/internal/dates"
	"github.com/praeto/tendertrack/internal/model"
)

const easyTendersBaseURL = "https://easytenders.co.za"

// EasyTenders scrapes easytenders.co.za through its keyword search.
// The portal exposes no native listing IDs, so identity falls back to a
// weak title hash; one search request is issued per configured keyword
// with the politeness delay between requests.
type EasyTenders struct {
	deps     Deps
	baseURL  string
	keywords []string
}

// NewEasyTenders builds the adapter. Search terms are the first
// perCategory keywords of every category rule, deduplicated.
func NewEasyTenders(deps Deps, rules []model.CategoryRule, perCategory int) *EasyTenders {
	if perCategory <= 0 {
		perCategory = 5
	}
	seen := make(map[string]bool)
	var keywords []string
	for _, rule := range rules {
		n := perCategory
		if n > len(rule.Keywords) {
			n = len(rule.Keywords)
		}
		for _, kw := range rule.Keywords[:n] {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}
	return &EasyTenders{deps: deps, baseURL: easyTendersBaseURL, keywords: keywords}
}

func (a *EasyTenders) Name() string         { return "easytenders" }
func (a *EasyTenders) Source() model.Source { return model.SourceEasyTenders }

type easyTendersCard struct {
	title   string
	buyer   string
	closing string
	link    string
}

// Scrape searches every keyword and merges the result cards,
// de-duplicating within the run by title+buyer. The source is reported
// unavailable only when every single search failed.
func (a *EasyTenders) Scrape(ctx context.Context, ref time.Time) ([]RowResult, error) {
	var (
		results  []RowResult
		seen     = make(map[string]bool)
		failures int
	)

	for _, kw := range a.keywords {
		searchURL := fmt.Sprintf("%s/tenders?search=%s", a.baseURL, url.QueryEscape(kw))

		body, err := a.deps.Fetcher.GetPolite(ctx, searchURL)
		if err != nil {
			if ctx.Err() != nil {
				return results, fmt.Errorf("easytenders: %w", ctx.Err())
			}
			failures++
			a.deps.Log.Warn("easytenders: search failed",
				zap.String("keyword", kw), zap.Error(err))
			continue
		}

		doc, err := parseHTML(body)
		if err != nil {
			failures++
			continue
		}

		for _, card := range parseEasyTendersCards(doc) {
			dedup := strings.ToLower(card.title + "_" + card.buyer)
			if seen[dedup] {
				continue
			}
			seen[dedup] = true
			results = append(results, a.normalize(card, ref))
		}
	}

	if failures == len(a.keywords) && failures > 0 {
		return nil, fmt.Errorf("easytenders: all %d searches failed", failures)
	}

	a.deps.Log.Info("scraped easytenders",
		zap.Int("keywords", len(a.keywords)),
		zap.Int("failed_searches", failures),
		zap.Int("rows", len(results)))
	return results, nil
}

func parseEasyTendersCards(doc *html.Node) []easyTendersCard {
	var cards []easyTendersCard
	for _, div := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "tender")
	}) {
		card := easyTendersCard{link: firstLink(div)}

		if t := findFirst(div, func(n *html.Node) bool {
			return hasClass(n, "text-dark") || hasClass(n, "font-size-14")
		}); t != nil {
			card.title = nodeText(t)
		}
		if b := findFirst(div, func(n *html.Node) bool {
			return hasClass(n, "text-primary")
		}); b != nil {
			card.buyer = nodeText(b)
		}
		if c := findFirst(div, func(n *html.Node) bool {
			return hasClass(n, "closing-date")
		}); c != nil {
			card.closing = nodeText(c)
		}
		cards = append(cards, card)
	}
	return cards
}

func (a *EasyTenders) normalize(card easyTendersCard, ref time.Time) RowResult {
	title := strings.TrimSpace(card.title)
	if title == "" {
		return SkipRow("empty title")
	}
	buyer := strings.TrimSpace(card.buyer)
	if buyer == "" {
		return SkipRow("empty buyer for %q", title)
	}

	closing, ok, days := dates.Normalize(card.closing, ref)
	t := &model.Tender{
		Source:        model.SourceEasyTenders,
		ExternalID:    weakID("EZ", title),
		Title:         title,
		Buyer:         buyer,
		Category:      a.deps.Categorizer.Categorize(title),
		DaysRemaining: days,
		Description:   title,
		DocumentLink:  absoluteURL(a.baseURL, card.link),
		PriorityBuyer: categorize.IsPriorityBuyer(buyer, a.deps.PriorityBuyers),
		ScrapedAt:     ref,
	}
	if ok {
		t.ClosingDate = &closing
	} else if card.closing != "" {
		a.deps.Log.Warn("easytenders: unparseable closing date",
			zap.String("raw", card.closing), zap.String("title", title))
	}
	return Ok(t)
}
