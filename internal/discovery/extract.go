package discovery

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/tokens"
)

// anchorKeywords admit a link even without a .pdf extension when its label
// suggests a report document.
var anchorKeywords = []string{"pdf", "report", "footprint"}

// documentAttrs are non-standard attributes commonly used to lazy-load or
// script-inject document links.
var documentAttrs = []string{
	"data-href",
	"data-src",
	"data-url",
	"data-download",
	"data-asset-url",
}

// pdfLiteral matches quoted strings ending in .pdf inside raw HTML. It
// recovers links embedded in inline script and JSON blobs that never appear
// in the parsed DOM.
var pdfLiteral = regexp.MustCompile(`["']([^"'<>\s]+?\.pdf(?:\?[^"'<>\s]*)?)["']`)

// linkStrategy is one independent detection pass over a fetched page. The
// extractor unions the output of every strategy.
type linkStrategy interface {
	Extract(base *url.URL, body []byte, doc *goquery.Document) []CandidateLink
}

// Extractor finds every URL on a page that plausibly points to a PDF.
type Extractor struct {
	strategies []linkStrategy
	logger     *zap.Logger
}

// NewExtractor builds an extractor with the three standard passes: DOM
// anchors, DOM data attributes, and a raw-text regex sweep.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		strategies: []linkStrategy{
			anchorStrategy{},
			attributeStrategy{attrs: documentAttrs},
			regexStrategy{},
		},
		logger: logger,
	}
}

// Extract runs every strategy against the page and returns the union,
// deduplicated by normalized URL with the first provenance tag winning.
// Malformed HTML never fails extraction: the DOM passes are skipped and
// counted as parse warnings while the regex sweep still runs.
func (e *Extractor) Extract(pageURL string, body []byte) ([]CandidateLink, int) {
	base, err := url.Parse(pageURL)
	if err != nil {
		e.logger.Warn("Unparseable page URL, skipping extraction", zap.String("url", pageURL), zap.Error(err))
		return nil, 1
	}

	warnings := 0
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("HTML parse failed, DOM passes skipped", zap.String("url", pageURL), zap.Error(err))
		doc = nil
		warnings++
	}

	seen := make(map[string]struct{})
	var out []CandidateLink
	for _, s := range e.strategies {
		for _, link := range s.Extract(base, body, doc) {
			key := normalizedKey(link.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, link)
		}
	}
	return out, warnings
}

// ExtractSectioned is the grouped pass over listing pages. Headings (h2/h3)
// and token-matching list items open a section; every .pdf anchor inside a
// section whose label matches the product tokens is kept, so model-named
// documents ("latitude-5440.pdf") under a "Laptops" heading survive even
// though the link itself carries no token.
func (e *Extractor) ExtractSectioned(pageURL string, body []byte, toks tokens.Set) []CandidateLink {
	if toks.Empty() {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	section := ""
	var out []CandidateLink
	doc.Find("h2, h3, li, a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		switch goquery.NodeName(sel) {
		case "h2", "h3":
			section = text
		case "li":
			if toks.Matches(text) {
				section = text
			}
		case "a":
			if section == "" || !toks.Matches(section) {
				return
			}
			href, _ := sel.Attr("href")
			abs, ok := resolveRef(base, href)
			if !ok || !IsPDFURL(abs) {
				return
			}
			if text == "" {
				text = section
			}
			out = append(out, CandidateLink{
				URL:        abs,
				Text:       text,
				SourceAttr: "href",
				Provenance: ProvenanceSection,
			})
		}
	})
	return out
}

// anchorStrategy collects hyperlinks that resolve to .pdf or whose label
// carries report vocabulary.
type anchorStrategy struct{}

func (anchorStrategy) Extract(base *url.URL, _ []byte, doc *goquery.Document) []CandidateLink {
	if doc == nil {
		return nil
	}
	var out []CandidateLink
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs, ok := resolveRef(base, href)
		if !ok {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if !IsPDFURL(abs) && !containsAnyFold(text, anchorKeywords) {
			return
		}
		out = append(out, CandidateLink{
			URL:        abs,
			Text:       text,
			SourceAttr: "href",
			Provenance: ProvenanceAnchor,
		})
	})
	return out
}

// attributeStrategy scans a fixed list of data attributes for document links.
type attributeStrategy struct {
	attrs []string
}

func (s attributeStrategy) Extract(base *url.URL, _ []byte, doc *goquery.Document) []CandidateLink {
	if doc == nil {
		return nil
	}
	var out []CandidateLink
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range s.attrs {
			val, ok := sel.Attr(attr)
			if !ok {
				continue
			}
			abs, ok := resolveRef(base, val)
			if !ok {
				continue
			}
			text := strings.TrimSpace(sel.Text())
			if !IsPDFURL(abs) && !containsAnyFold(text, anchorKeywords) {
				continue
			}
			out = append(out, CandidateLink{
				URL:        abs,
				Text:       text,
				SourceAttr: attr,
				Provenance: ProvenanceDataAttr,
			})
		}
	})
	return out
}

// regexStrategy sweeps the raw HTML for quoted .pdf strings. Intentionally
// redundant with the DOM passes; it is the safety net for script-rendered
// content.
type regexStrategy struct{}

func (regexStrategy) Extract(base *url.URL, body []byte, _ *goquery.Document) []CandidateLink {
	var out []CandidateLink
	for _, m := range pdfLiteral.FindAllSubmatch(body, -1) {
		abs, ok := resolveRef(base, string(m[1]))
		if !ok {
			continue
		}
		if !IsPDFURL(abs) {
			continue
		}
		out = append(out, CandidateLink{
			URL:        abs,
			SourceAttr: "raw-html",
			Provenance: ProvenanceRegex,
		})
	}
	return out
}

func containsAnyFold(text string, needles []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
