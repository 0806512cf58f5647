package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/tokens"
)

func TestExtractThreePasses(t *testing.T) {
	page := `<html><body>
		<a href="report.pdf">Latitude report</a>
		<div data-href="/files/other.pdf">Download</div>
		<script>var doc = {"file": "hidden.pdf"};</script>
	</body></html>`

	extractor := NewExtractor(nil)
	links, warnings := extractor.Extract("https://example.com/sustainability/", []byte(page))

	require.Zero(t, warnings)
	require.Len(t, links, 3)

	byURL := make(map[string]CandidateLink, len(links))
	for _, l := range links {
		byURL[l.URL] = l
	}

	anchor, ok := byURL["https://example.com/sustainability/report.pdf"]
	require.True(t, ok, "anchor link missing: %v", links)
	require.Equal(t, ProvenanceAnchor, anchor.Provenance)
	require.Equal(t, "Latitude report", anchor.Text)

	attr, ok := byURL["https://example.com/files/other.pdf"]
	require.True(t, ok, "data-attribute link missing: %v", links)
	require.Equal(t, ProvenanceDataAttr, attr.Provenance)
	require.Equal(t, "data-href", attr.SourceAttr)

	swept, ok := byURL["https://example.com/sustainability/hidden.pdf"]
	require.True(t, ok, "regex-swept link missing: %v", links)
	require.Equal(t, ProvenanceRegex, swept.Provenance)
}

func TestExtractFirstProvenanceWins(t *testing.T) {
	// The same document is reachable through an anchor and the raw HTML
	// sweep; the anchor pass runs first and keeps the tag.
	page := `<a href="/files/report.pdf">PCF report</a>`

	extractor := NewExtractor(nil)
	links, _ := extractor.Extract("https://example.com/", []byte(page))

	require.Len(t, links, 1)
	require.Equal(t, ProvenanceAnchor, links[0].Provenance)
}

func TestExtractKeywordAnchorWithoutExtension(t *testing.T) {
	page := `<a href="/download?id=42">Carbon footprint report</a>
		<a href="/download?id=43">Pricing</a>`

	extractor := NewExtractor(nil)
	links, _ := extractor.Extract("https://example.com/", []byte(page))

	require.Len(t, links, 1)
	require.Equal(t, "https://example.com/download?id=42", links[0].URL)
}

func TestExtractSkipsPseudoLinks(t *testing.T) {
	page := `<a href="javascript:void(0)">report.pdf</a>
		<a href="mailto:x@example.com">pdf by mail</a>`

	extractor := NewExtractor(nil)
	links, _ := extractor.Extract("https://example.com/", []byte(page))
	require.Empty(t, links)
}

func TestExtractSectionedHeadingContext(t *testing.T) {
	page := `
		<h2 id="laptops">Laptops</h2>
		<a href="/files/latitude-5440.pdf">Latitude 5440</a>
		<a href="/files/precision-3590.pdf">Precision 3590</a>
		<h2 id="phones">Phones</h2>
		<a href="/files/xperia-10.pdf">Xperia 10</a>`

	extractor := NewExtractor(nil)
	links := extractor.ExtractSectioned("https://example.com/pcfs", []byte(page), tokens.Expand("laptop"))

	var urls []string
	for _, l := range links {
		require.Equal(t, ProvenanceSection, l.Provenance)
		urls = append(urls, l.URL)
	}
	require.Equal(t, []string{
		"https://example.com/files/latitude-5440.pdf",
		"https://example.com/files/precision-3590.pdf",
	}, urls, "a new heading closes the previous section")
}

func TestExtractSectionedListItemOpensSection(t *testing.T) {
	page := `
		<h2>All products</h2>
		<ul><li>Latitude laptop family</li></ul>
		<a href="/files/latitude-5440.pdf">Latitude 5440</a>`

	extractor := NewExtractor(nil)
	links := extractor.ExtractSectioned("https://example.com/pcfs", []byte(page), tokens.Expand("laptop"))

	require.Len(t, links, 1)
	require.Equal(t, "https://example.com/files/latitude-5440.pdf", links[0].URL)
}

func TestExtractSectionedRequiresMatchingSection(t *testing.T) {
	page := `
		<a href="/files/latitude-5440.pdf">Latitude 5440</a>
		<h2>Phones</h2>
		<a href="/files/galaxy-s24.pdf">Galaxy S24</a>`

	extractor := NewExtractor(nil)
	links := extractor.ExtractSectioned("https://example.com/pcfs", []byte(page), tokens.Expand("laptop"))
	require.Empty(t, links, "anchors before any section or under a foreign one are out")
}

func TestExtractSectionedEmptyTokenSet(t *testing.T) {
	page := `<h2>Laptops</h2><a href="/files/latitude.pdf">Latitude</a>`

	extractor := NewExtractor(nil)
	require.Empty(t, extractor.ExtractSectioned("https://example.com/", []byte(page), tokens.Expand("")))
}

func TestExtractMalformedHTMLNeverFails(t *testing.T) {
	// Truncated, nested garbage. goquery tolerates most of it; whatever
	// happens, extraction must not panic and the regex sweep still runs.
	page := `<div><<a href=><script>"fallback.pdf"` + "\x00"

	extractor := NewExtractor(nil)
	links, _ := extractor.Extract("https://example.com/", []byte(page))

	require.Len(t, links, 1)
	require.Equal(t, "https://example.com/fallback.pdf", links[0].URL)
	require.Equal(t, ProvenanceRegex, links[0].Provenance)
}
