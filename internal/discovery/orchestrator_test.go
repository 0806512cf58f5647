package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticIDs struct{}

func (staticIDs) NewID() (string, error) { return "run-1", nil }

func newTestOrchestrator(fetcher Fetcher, searcher Searcher, target, maxTotal int) *Orchestrator {
	extractor := NewExtractor(nil)
	navigator := NewNavigator(DefaultRubric(), nil)
	crawler := NewCrawler(fetcher, extractor, Limits{MaxDepth: 2, MaxPages: 20, MaxPDFs: 20}, nil)
	var fallback *Fallback
	if searcher != nil {
		fallback = NewFallback(searcher, 10, nil)
	}
	return NewOrchestrator(fetcher, navigator, crawler, fallback, staticIDs{}, target, maxTotal, nil)
}

func TestDiscoverLandingToHubEndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://brand.com/sustainability": `
			<a href="/sustainability/reports">View all sustainability reports</a>
			<a href="/careers">Careers</a>`,
		"https://brand.com/sustainability/reports": `
			<a href="/files/latitude-laptop.pdf">Latitude laptop</a>
			<a href="/files/precision-notebook.pdf">Precision notebook</a>
			<a href="/files/phone-report.pdf">Phone</a>`,
	}}
	searcher := &fakeSearcher{}

	orch := newTestOrchestrator(fetcher, searcher, 2, 10)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/sustainability",
	})

	require.Equal(t, "run-1", result.RunID)
	require.Equal(t, "https://brand.com/sustainability/reports", result.HubURL)
	require.Equal(t, 2, result.Counters.PagesVisited)

	var urls []string
	for _, l := range result.PDFs {
		urls = append(urls, l.URL)
	}
	require.Equal(t, []string{
		"https://brand.com/files/latitude-laptop.pdf",
		"https://brand.com/files/precision-notebook.pdf",
	}, urls)

	require.Empty(t, searcher.queries, "target met on-site, fallback must stay idle")
}

func TestDiscoverSectionGroupedPDFsOnHub(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://brand.com/sustainability": `<a href="/pcf/reports">View all PCF reports</a>`,
		"https://brand.com/pcf/reports": `
			<h2 id="laptops">Laptops</h2>
			<a href="/files/latitude-5440.pdf">Latitude 5440</a>
			<h2 id="phones">Phones</h2>
			<a href="/files/xperia-10.pdf">Xperia 10</a>`,
	}}

	orch := newTestOrchestrator(fetcher, nil, 1, 10)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/sustainability",
	})

	require.Len(t, result.PDFs, 1)
	require.Equal(t, "https://brand.com/files/latitude-5440.pdf", result.PDFs[0].URL)
	require.Equal(t, ProvenanceSection, result.PDFs[0].Provenance)
	require.Equal(t, "https://brand.com/pcf/reports#laptops", result.SectionURL)
}

func TestDiscoverNoHubStaysOnLanding(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://brand.com/pcfs": `
			<a href="#laptops">Laptops</a>
			<a href="/files/laptop-a.pdf">Laptop A</a>`,
	}}

	orch := newTestOrchestrator(fetcher, nil, 1, 10)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/pcfs",
	})

	require.Empty(t, result.HubURL)
	require.Equal(t, "https://brand.com/pcfs#laptops", result.SectionURL)
	require.Equal(t, 1, result.Counters.PagesVisited)
	require.Len(t, result.PDFs, 1)
}

func TestDiscoverDirectPDFLanding(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}

	orch := newTestOrchestrator(fetcher, nil, 1, 10)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/files/laptop.pdf",
	})

	require.Len(t, result.PDFs, 1)
	require.Equal(t, "https://brand.com/files/laptop.pdf", result.PDFs[0].URL)
	require.Empty(t, fetcher.calls, "no navigation for a direct PDF landing")
}

func TestDiscoverFallbackSupplementsLowYield(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://brand.com/sustainability": `<p>Nothing here.</p>`,
	}}
	searcher := &fakeSearcher{hits: []SearchResult{
		{URL: "https://brand.com/files/fallback-laptop.pdf", Title: "Laptop PCF"},
	}}

	orch := newTestOrchestrator(fetcher, searcher, 1, 10)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/sustainability",
	})

	require.NotEmpty(t, searcher.queries)
	require.Len(t, result.PDFs, 1)
	require.Equal(t, ProvenanceSearch, result.PDFs[0].Provenance)
	require.Equal(t, 1, result.Counters.SearchQueries)
}

func TestDiscoverLandingFetchFailureYieldsEmptyResult(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}

	orch := newTestOrchestrator(fetcher, nil, 1, 10)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/missing",
	})

	require.Empty(t, result.PDFs, "empty discovery is a valid outcome, not an error")
	require.Equal(t, "https://brand.com/missing", result.LandingURL)
	require.Equal(t, 1, result.Counters.PagesVisited, "a failed fetch attempt still counts as a visit")
}

func TestDiscoverCapsTotalResults(t *testing.T) {
	page := `
		<a href="/files/laptop-1.pdf">Laptop 1</a>
		<a href="/files/laptop-2.pdf">Laptop 2</a>
		<a href="/files/laptop-3.pdf">Laptop 3</a>`
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://brand.com/reports": page,
	}}

	orch := newTestOrchestrator(fetcher, nil, 1, 2)
	result := orch.Discover(context.Background(), Request{
		Brand:       "brand",
		ProductType: "laptop",
		LandingURL:  "https://brand.com/reports",
	})

	require.Len(t, result.PDFs, 2)
}
