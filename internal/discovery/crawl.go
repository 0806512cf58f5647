package discovery

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/tokens"
)

// Limits are the independent hard caps of one crawl. Any limit reaching its
// bound halts further expansion without affecting already-collected results.
type Limits struct {
	MaxDepth int
	MaxPages int
	MaxPDFs  int
}

// DefaultLimits mirrors the caps the pipeline ships with.
func DefaultLimits() Limits {
	return Limits{MaxDepth: 2, MaxPages: 60, MaxPDFs: 40}
}

type frontierEntry struct {
	url   string
	depth int
}

// Crawler walks a brand site breadth-first, collecting candidate PDFs that
// match the requested product tokens. Same registrable domain only; the
// visited set is keyed by normalized URL and is mandatory for termination
// because the crawl graph contains cycles.
type Crawler struct {
	fetcher   Fetcher
	extractor *Extractor
	limits    Limits
	logger    *zap.Logger
}

// NewCrawler builds a Crawler around the given fetch capability.
func NewCrawler(fetcher Fetcher, extractor *Extractor, limits Limits, logger *zap.Logger) *Crawler {
	if limits.MaxDepth <= 0 && limits.MaxPages <= 0 && limits.MaxPDFs <= 0 {
		limits = DefaultLimits()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{fetcher: fetcher, extractor: extractor, limits: limits, logger: logger}
}

// Crawl traverses from startURL and returns the accepted candidate links in
// discovery order. Fetch failures degrade individual pages to zero links;
// Crawl itself never fails.
func (c *Crawler) Crawl(ctx context.Context, startURL string, toks tokens.Set) ([]CandidateLink, Counters) {
	return c.run(ctx, startURL, nil, toks)
}

// CrawlPage is Crawl seeded with an already-fetched start page, so callers
// that inspected the page first do not fetch it twice. The seed still counts
// as a visited page.
func (c *Crawler) CrawlPage(ctx context.Context, page Page, toks tokens.Set) ([]CandidateLink, Counters) {
	startURL := page.FinalURL
	if startURL == "" {
		startURL = page.URL
	}
	return c.run(ctx, startURL, &page, toks)
}

func (c *Crawler) run(ctx context.Context, startURL string, seed *Page, toks tokens.Set) ([]CandidateLink, Counters) {
	var counters Counters

	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" {
		c.logger.Warn("Invalid crawl start URL", zap.String("url", startURL), zap.Error(err))
		return nil, counters
	}
	domain := RegistrableDomain(start.Host)

	// seen marks URLs at enqueue time so each is enqueued at most once.
	seen := map[string]struct{}{normalizedKey(startURL): {}}
	frontier := []frontierEntry{{url: startURL, depth: 0}}
	accepted := make(map[string]struct{})
	var results []CandidateLink

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			break
		}
		if counters.PagesVisited >= c.limits.MaxPages {
			break
		}
		entry := frontier[0]
		frontier = frontier[1:]

		var page Page
		var fetchErr error
		if seed != nil && entry.depth == 0 && entry.url == startURL {
			page = *seed
			seed = nil
		} else {
			page, fetchErr = c.fetcher.Fetch(ctx, entry.url)
		}
		counters.PagesVisited++
		if fetchErr != nil || len(page.Body) == 0 {
			c.logger.Warn("Page fetch failed, continuing crawl",
				zap.String("url", entry.url), zap.Int("depth", entry.depth), zap.Error(fetchErr))
			continue
		}

		base := page.FinalURL
		if base == "" {
			base = entry.url
		}

		candidates, warnings := c.extractor.Extract(base, page.Body)
		counters.ParseWarnings += warnings
		counters.CandidatesSeen += len(candidates)

		// Section headings vouch for model-named PDFs whose URL and label
		// carry no product token of their own.
		sectioned := make(map[string]CandidateLink)
		for _, s := range c.extractor.ExtractSectioned(base, page.Body, toks) {
			sectioned[normalizedKey(s.URL)] = s
		}

		for _, cand := range candidates {
			if len(results) >= c.limits.MaxPDFs {
				break
			}
			if !SameDomain(cand.URL, domain) {
				continue
			}
			key := normalizedKey(cand.URL)
			if !c.relevant(cand, toks) {
				sc, ok := sectioned[key]
				if !ok {
					continue
				}
				cand = sc
			}
			if _, dup := accepted[key]; dup {
				continue
			}
			accepted[key] = struct{}{}
			results = append(results, cand)
			counters.CandidatesAccepted++
		}
		if len(results) >= c.limits.MaxPDFs {
			c.logger.Info("PDF cap reached, halting crawl", zap.Int("max_pdfs", c.limits.MaxPDFs))
			break
		}

		if entry.depth >= c.limits.MaxDepth {
			continue
		}
		for _, next := range c.outboundLinks(base, page.Body, domain) {
			key := normalizedKey(next)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			frontier = append(frontier, frontierEntry{url: next, depth: entry.depth + 1})
		}
	}

	return results, counters
}

// relevant applies the token filter: the candidate's URL path or anchor text
// must carry at least one product token. An empty token set accepts all.
func (c *Crawler) relevant(cand CandidateLink, toks tokens.Set) bool {
	if toks.Empty() {
		return true
	}
	if toks.Matches(urlPath(cand.URL)) {
		return true
	}
	return toks.Matches(cand.Text)
}

// outboundLinks enumerates same-domain HTML links in document order.
func (c *Crawler) outboundLinks(pageURL string, body []byte, domain string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs, ok := resolveRef(base, href)
		if !ok {
			return
		}
		if IsPDFURL(abs) {
			return
		}
		if !SameDomain(abs, domain) {
			return
		}
		out = append(out, abs)
	})
	return out
}
