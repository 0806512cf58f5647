package discovery

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/tokens"
)

// pcfVocabulary are the fixed keyword clauses combined with product tokens
// when building fallback queries.
var pcfVocabulary = []string{
	`"product carbon footprint"`,
	`"life cycle assessment"`,
	`PCF`,
	`EPD`,
	`"kg CO2e"`,
}

// Fallback supplements an under-delivering crawl with candidates from the
// external search capability. It never re-queries indefinitely: at most
// maxQueries variants are issued per invocation.
type Fallback struct {
	searcher   Searcher
	maxQueries int
	logger     *zap.Logger
}

// NewFallback builds a Fallback. maxQueries <= 0 defaults to one query per
// vocabulary clause in both plain and token-augmented form.
func NewFallback(searcher Searcher, maxQueries int, logger *zap.Logger) *Fallback {
	if maxQueries <= 0 {
		maxQueries = 2 * len(pcfVocabulary)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{searcher: searcher, maxQueries: maxQueries, logger: logger}
}

// Supplement returns additional candidates when the crawl yield is below
// target. When len(found) >= target it issues zero queries. Search failures
// degrade to zero additional candidates.
func (f *Fallback) Supplement(ctx context.Context, domain string, toks tokens.Set, found []CandidateLink, target int) ([]CandidateLink, int) {
	if len(found) >= target {
		return nil, 0
	}

	seen := make(map[string]struct{}, len(found))
	for _, link := range found {
		seen[normalizedKey(link.URL)] = struct{}{}
	}

	queries := f.buildQueries(domain, toks)
	issued := 0
	var extra []CandidateLink
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		issued++
		hits, err := f.searcher.Search(ctx, q)
		if err != nil {
			f.logger.Warn("Fallback search failed", zap.String("query", q.Text), zap.Error(err))
			continue
		}
		for _, hit := range hits {
			u := strings.TrimSpace(hit.URL)
			if u == "" || !IsPDFURL(u) {
				continue
			}
			if !SameDomain(u, domain) {
				continue
			}
			key := normalizedKey(u)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			extra = append(extra, CandidateLink{
				URL:        u,
				Text:       hit.Title,
				SourceAttr: "search-result",
				Provenance: ProvenanceSearch,
			})
		}
		if len(found)+len(extra) >= target {
			break
		}
	}

	f.logger.Info("Fallback search complete",
		zap.String("domain", domain),
		zap.Int("queries", issued),
		zap.Int("additional", len(extra)))
	return extra, issued
}

// buildQueries renders the bounded query variants: each PCF vocabulary
// clause plain, then augmented with the product-token OR-clause.
func (f *Fallback) buildQueries(domain string, toks tokens.Set) []Query {
	var tokenClause string
	if terms := toks.Tokens(); len(terms) > 0 {
		quoted := make([]string, len(terms))
		for i, t := range terms {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		tokenClause = "(" + strings.Join(quoted, " OR ") + ")"
	}

	var queries []Query
	for _, kw := range pcfVocabulary {
		queries = append(queries, Query{Text: kw, Site: domain, FileType: "pdf"})
		if tokenClause != "" {
			queries = append(queries, Query{Text: tokenClause + " " + kw, Site: domain, FileType: "pdf"})
		}
	}
	if len(queries) > f.maxQueries {
		queries = queries[:f.maxQueries]
	}
	return queries
}
