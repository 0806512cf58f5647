// Package discovery implements the PCF report discovery pipeline: hub
// navigation, multi-strategy PDF link extraction, a bounded same-domain
// crawl, and an external-search fallback.
package discovery

import (
	"context"
	"net/http"
)

// Provenance records which extraction strategy produced a candidate link.
type Provenance string

// Provenance values attached to candidate links.
const (
	ProvenanceAnchor   Provenance = "anchor-tag"
	ProvenanceDataAttr Provenance = "data-attribute"
	ProvenanceRegex    Provenance = "regex-sweep"
	ProvenanceSection  Provenance = "section-heading"
	ProvenanceSearch   Provenance = "external-search"
)

// CandidateLink is a URL that plausibly points to a PDF, together with the
// context that produced it. Deduplication is by normalized URL, never by the
// raw string.
type CandidateLink struct {
	URL        string     `json:"url"`
	Text       string     `json:"text,omitempty"`
	SourceAttr string     `json:"source_attr,omitempty"`
	Provenance Provenance `json:"provenance"`
}

// ScoredLink is a candidate link with its rubric score and the vocabulary
// entries that matched.
type ScoredLink struct {
	CandidateLink
	Score   int
	Matched []string
}

// Page is the outcome of fetching one URL. FinalURL reflects redirects.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Counters accumulates observability counts across one discovery run.
// PagesVisited counts fetch attempts, failed ones included; a page whose
// fetch errors out still consumed budget.
type Counters struct {
	PagesVisited       int `json:"pages_visited"`
	CandidatesSeen     int `json:"candidates_seen"`
	CandidatesAccepted int `json:"candidates_accepted"`
	ParseWarnings      int `json:"parse_warnings"`
	SearchQueries      int `json:"search_queries"`
}

func (c *Counters) merge(other Counters) {
	c.PagesVisited += other.PagesVisited
	c.CandidatesSeen += other.CandidatesSeen
	c.CandidatesAccepted += other.CandidatesAccepted
	c.ParseWarnings += other.ParseWarnings
	c.SearchQueries += other.SearchQueries
}

// Result is the sole artifact a discovery run hands downstream. It is
// immutable once the orchestrator returns it.
type Result struct {
	RunID       string          `json:"run_id"`
	Brand       string          `json:"brand"`
	ProductType string          `json:"product_type"`
	LandingURL  string          `json:"landing_url"`
	HubURL      string          `json:"hub_url,omitempty"`
	SectionURL  string          `json:"section_url,omitempty"`
	PDFs        []CandidateLink `json:"pdfs"`
	Counters    Counters        `json:"counters"`
}

// Fetcher is the HTTP capability the pipeline calls into. Implementations
// own retry, backoff, and identifying headers; the pipeline treats any error
// uniformly as "no content from this URL".
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Query is one structured request against the external search capability.
type Query struct {
	Text     string
	Site     string
	FileType string
}

// SearchResult is one hit returned by the external search capability,
// relevance-ordered by the backend.
type SearchResult struct {
	URL   string
	Title string
}

// Searcher is the external search capability consumed by the fallback step.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]SearchResult, error)
}
