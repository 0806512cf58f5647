package discovery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/tokens"
)

// RuleScope selects which part of a scored link a rubric rule inspects.
type RuleScope int

// Rule scopes.
const (
	ScopeText RuleScope = iota // anchor text only
	ScopePath                  // URL path only
	ScopeAny                   // anchor text or full URL
)

// Rule is one tabulated entry of the hub scoring rubric.
type Rule struct {
	Needle string
	Weight int
	Scope  RuleScope
}

// Rubric is the weighted keyword table used to locate the reports hub on a
// landing page. Weights and threshold are tunable, not contracts.
type Rubric struct {
	Rules     []Rule
	Threshold int
}

// DefaultRubric returns the shipped rule set. Positive text vocabulary marks
// "view all reports" calls to action, positive path vocabulary marks PCF
// sections, and the negative entries blank out unrelated site areas.
func DefaultRubric() Rubric {
	return Rubric{
		Threshold: 8,
		Rules: []Rule{
			{Needle: "view reports", Weight: 10, Scope: ScopeText},
			{Needle: "view pcfs", Weight: 10, Scope: ScopeText},
			{Needle: "all pcf", Weight: 10, Scope: ScopeText},
			{Needle: "product footprints", Weight: 10, Scope: ScopeText},
			{Needle: "product carbon footprint", Weight: 10, Scope: ScopeAny},
			{Needle: "carbon-footprint", Weight: 10, Scope: ScopeAny},
			{Needle: "environmental report", Weight: 8, Scope: ScopeAny},
			{Needle: "view all", Weight: 6, Scope: ScopeText},
			{Needle: "see all", Weight: 6, Scope: ScopeText},
			{Needle: "download", Weight: 4, Scope: ScopeText},
			{Needle: "pcf", Weight: 6, Scope: ScopePath},
			{Needle: "carbon", Weight: 5, Scope: ScopePath},
			{Needle: "footprint", Weight: 5, Scope: ScopePath},
			{Needle: "sustainab", Weight: 4, Scope: ScopePath},
			{Needle: "report", Weight: 4, Scope: ScopePath},
			{Needle: "epd", Weight: 4, Scope: ScopePath},
			{Needle: "news", Weight: -20, Scope: ScopeAny},
			{Needle: "career", Weight: -20, Scope: ScopeAny},
			{Needle: "investor", Weight: -20, Scope: ScopeAny},
			{Needle: "press", Weight: -20, Scope: ScopeAny},
			{Needle: "blog", Weight: -20, Scope: ScopeAny},
			{Needle: "support", Weight: -20, Scope: ScopeAny},
			{Needle: "contact", Weight: -20, Scope: ScopeAny},
			{Needle: "partner", Weight: -20, Scope: ScopeAny},
			{Needle: "drivers", Weight: -20, Scope: ScopeAny},
		},
	}
}

// Navigator locates the reports hub on a landing page and the product
// category section within a hub page. Deterministic for identical HTML.
type Navigator struct {
	rubric Rubric
	logger *zap.Logger
}

// NewNavigator builds a Navigator. A zero-value rubric falls back to the
// default rule set.
func NewNavigator(rubric Rubric, logger *zap.Logger) *Navigator {
	if len(rubric.Rules) == 0 {
		rubric = DefaultRubric()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{rubric: rubric, logger: logger}
}

// Score applies the rubric to one link. Exported so the rubric can be tuned
// and tested independently of navigation.
func (r Rubric) Score(text, rawURL string) (int, []string) {
	lowerText := strings.ToLower(text)
	lowerURL := strings.ToLower(rawURL)
	lowerPath := lowerURL
	if u, err := url.Parse(rawURL); err == nil {
		lowerPath = strings.ToLower(u.Path)
	}

	score := 0
	var matched []string
	for _, rule := range r.Rules {
		var hay string
		switch rule.Scope {
		case ScopeText:
			hay = lowerText
		case ScopePath:
			hay = lowerPath
		default:
			hay = lowerText + " " + lowerURL
		}
		if strings.Contains(hay, rule.Needle) {
			score += rule.Weight
			matched = append(matched, rule.Needle)
		}
	}
	return score, matched
}

// FindHub scores every outbound same-domain link on the landing page and
// returns the best candidate above the rubric threshold. When nothing clears
// the threshold the landing page itself should be treated as the hub.
func (n *Navigator) FindHub(landingURL string, body []byte) (string, bool) {
	base, err := url.Parse(landingURL)
	if err != nil {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("Landing page parse failed", zap.String("url", landingURL), zap.Error(err))
		return "", false
	}

	var best *ScoredLink
	var bestPathLen int
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs, ok := resolveRef(base, href)
		if !ok || !SameDomain(abs, base.Host) {
			return
		}
		text := strings.TrimSpace(sel.Text())
		score, matched := n.rubric.Score(text, abs)
		pathLen := len(urlPath(abs))
		// Ties break toward the shorter path; discovery order settles the rest.
		if best != nil && (score < best.Score || (score == best.Score && pathLen >= bestPathLen)) {
			return
		}
		best = &ScoredLink{
			CandidateLink: CandidateLink{URL: abs, Text: text, SourceAttr: "href", Provenance: ProvenanceAnchor},
			Score:         score,
			Matched:       matched,
		}
		bestPathLen = pathLen
	})

	if best == nil || best.Score < n.rubric.Threshold {
		n.logger.Info("No hub link cleared threshold, staying on landing page",
			zap.String("landing_url", landingURL))
		return "", false
	}
	n.logger.Info("Selected reports hub",
		zap.String("hub_url", best.URL),
		zap.Int("score", best.Score),
		zap.Strings("matched", best.Matched))
	return best.URL, true
}

// FindSection locates the in-page tab or anchor for the requested product
// category. It inspects anchor labels, aria-controls / data-bs-target panel
// references, and heading ids, in that order, and returns the first matching
// fragment identifier. Scripted tabs without static markup are invisible.
func (n *Navigator) FindSection(body []byte, toks tokens.Set) (string, bool) {
	if toks.Empty() {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}

	fragment := ""
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label := strings.TrimSpace(sel.Text())
		if label == "" {
			label, _ = sel.Attr("aria-label")
		}
		if !toks.Matches(label) {
			return true
		}
		if href, ok := sel.Attr("href"); ok && strings.HasPrefix(href, "#") && len(href) > 1 {
			fragment = href
			return false
		}
		for _, attr := range []string{"aria-controls", "data-bs-target", "data-target"} {
			if panel, ok := sel.Attr(attr); ok && panel != "" {
				fragment = "#" + strings.TrimPrefix(panel, "#")
				return false
			}
		}
		return true
	})
	if fragment != "" {
		return fragment, true
	}

	doc.Find("h2[id], h3[id], h4[id]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !toks.Matches(strings.TrimSpace(sel.Text())) {
			return true
		}
		id, _ := sel.Attr("id")
		fragment = "#" + id
		return false
	})
	return fragment, fragment != ""
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
