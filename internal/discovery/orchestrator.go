package discovery

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/tokens"
)

// IDGenerator produces run identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// Request describes one discovery run.
type Request struct {
	Brand       string
	ProductType string
	LandingURL  string
}

// Orchestrator sequences hub navigation, the site crawl, and the search
// fallback into a single discovery run. Every stage that fails to produce a
// usable page contributes zero candidates; Discover always returns a Result.
type Orchestrator struct {
	fetcher   Fetcher
	navigator *Navigator
	crawler   *Crawler
	fallback  *Fallback
	ids       IDGenerator

	targetCount int
	maxTotal    int
	logger      *zap.Logger
}

// NewOrchestrator wires the pipeline. targetCount is the yield below which
// the search fallback triggers; maxTotal caps the merged result.
func NewOrchestrator(
	fetcher Fetcher,
	navigator *Navigator,
	crawler *Crawler,
	fallback *Fallback,
	ids IDGenerator,
	targetCount, maxTotal int,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		fetcher:     fetcher,
		navigator:   navigator,
		crawler:     crawler,
		fallback:    fallback,
		ids:         ids,
		targetCount: targetCount,
		maxTotal:    maxTotal,
		logger:      logger,
	}
}

// Discover runs the full pipeline for one brand and product type.
func (o *Orchestrator) Discover(ctx context.Context, req Request) Result {
	result := Result{
		Brand:       req.Brand,
		ProductType: req.ProductType,
		LandingURL:  req.LandingURL,
	}
	if o.ids != nil {
		if id, err := o.ids.NewID(); err == nil {
			result.RunID = id
		}
	}
	toks := tokens.Expand(req.ProductType)

	// A landing URL that is itself a PDF needs no navigation at all.
	if IsPDFURL(req.LandingURL) {
		o.logger.Info("Landing URL is a direct PDF, skipping crawl", zap.String("url", req.LandingURL))
		result.PDFs = []CandidateLink{{
			URL:        req.LandingURL,
			SourceAttr: "landing-url",
			Provenance: ProvenanceAnchor,
		}}
		result.Counters.CandidatesSeen = 1
		result.Counters.CandidatesAccepted = 1
		return result
	}

	found := o.crawlStage(ctx, &result, toks)

	if o.fallback != nil && len(found) < o.targetCount {
		domain := registrableDomainOf(req.LandingURL)
		if domain != "" {
			extra, queries := o.fallback.Supplement(ctx, domain, toks, found, o.targetCount)
			result.Counters.SearchQueries = queries
			result.Counters.CandidatesSeen += len(extra)
			result.Counters.CandidatesAccepted += len(extra)
			found = append(found, extra...)
		}
	}

	if o.maxTotal > 0 && len(found) > o.maxTotal {
		found = found[:o.maxTotal]
	}
	result.PDFs = found

	o.logger.Info("Discovery run complete",
		zap.String("run_id", result.RunID),
		zap.String("brand", req.Brand),
		zap.String("product_type", req.ProductType),
		zap.Int("pdfs", len(result.PDFs)),
		zap.Int("pages_visited", result.Counters.PagesVisited))
	return result
}

// crawlStage fetches the landing page, resolves the hub and section, and runs
// the bounded crawl from whichever page the navigation settled on.
func (o *Orchestrator) crawlStage(ctx context.Context, result *Result, toks tokens.Set) []CandidateLink {
	landing, err := o.fetcher.Fetch(ctx, result.LandingURL)
	if err != nil || len(landing.Body) == 0 {
		o.logger.Warn("Landing page fetch failed, crawl stage yields nothing",
			zap.String("url", result.LandingURL), zap.Error(err))
		result.Counters.PagesVisited++
		return nil
	}

	startPage := landing
	if hubURL, ok := o.navigator.FindHub(pageAddress(landing), landing.Body); ok &&
		normalizedKey(hubURL) != normalizedKey(pageAddress(landing)) {
		hubPage, herr := o.fetcher.Fetch(ctx, hubURL)
		if herr != nil || len(hubPage.Body) == 0 {
			o.logger.Warn("Hub page fetch failed, staying on landing page",
				zap.String("hub_url", hubURL), zap.Error(herr))
		} else {
			// The landing page is counted here; the hub page is counted by
			// the crawl it seeds.
			result.Counters.PagesVisited++
			result.HubURL = hubURL
			startPage = hubPage
		}
	}

	if fragment, ok := o.navigator.FindSection(startPage.Body, toks); ok {
		result.SectionURL = withFragment(pageAddress(startPage), fragment)
	}

	crawled, counters := o.crawler.CrawlPage(ctx, startPage, toks)
	result.Counters.merge(counters)
	return crawled
}

func pageAddress(p Page) string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

func withFragment(rawURL, fragment string) string {
	base, _, _ := strings.Cut(rawURL, "#")
	return base + "#" + strings.TrimPrefix(fragment, "#")
}

func registrableDomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return RegistrableDomain(u.Host)
}
