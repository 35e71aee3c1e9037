// Package fetch retrieves raw portal pages for the source adapters.
// Every request carries a per-call timeout, a per-host rate limit, an
// optional robots.txt check, and a size cap on the response body.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/praeto/tendertrack/internal/cache"
	"github.com/praeto/tendertrack/internal/model"
	"github.com/praeto/tendertrack/internal/util"
	"github.com/praeto/tendertrack/internal/worker"
)

// ErrRobotsDisallowed marks a URL the host's robots.txt forbids.
var ErrRobotsDisallowed = fmt.Errorf("disallowed by robots.txt")

// Fetcher is the shared fetch capability handed to each adapter.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	delay     time.Duration

	limiter *worker.Limiter
	robots  *util.RobotsChecker
	pages   cache.Cache
	ttl     time.Duration

	log *zap.Logger
}

// New builds a Fetcher from the HTTP and cache configuration. pages may
// be nil to disable caching; robots checking follows cfg.RespectRobots.
func New(cfg model.HTTPConfig, pages cache.Cache, pageTTL time.Duration, log *zap.Logger) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		delay:     cfg.PolitenessDelay,
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		pages:     pages,
		ttl:       pageTTL,
		log:       log,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	return f
}

// Get fetches rawURL and returns the body, at most maxBytes of it.
// Cached pages short-circuit the rate limiter and the network.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return f.get(ctx, rawURL, 0)
}

// GetPolite fetches like Get but adds the inter-request politeness
// delay after rate-limit clearance. Adapters issuing one search per
// keyword use this to avoid bursts against a single portal.
func (f *Fetcher) GetPolite(ctx context.Context, rawURL string) ([]byte, error) {
	return f.get(ctx, rawURL, f.delay)
}

func (f *Fetcher) get(ctx context.Context, rawURL string, delay time.Duration) ([]byte, error) {
	key := cache.PageKey(rawURL)
	if f.pages != nil {
		if body, ok := f.pages.Get(key); ok {
			f.log.Debug("page cache hit", zap.String("url", rawURL))
			return body, nil
		}
	}

	if f.robots != nil && !f.robots.Allowed(ctx, rawURL) {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
	}

	if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-ZA,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if f.pages != nil {
		f.pages.Set(key, body, f.ttl)
	}
	return body, nil
}
