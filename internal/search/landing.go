package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/discovery"
)

// landingVocabulary marks result URLs that plausibly host a brand's PCF
// landing page.
var landingVocabulary = []string{"footprint", "sustainab", "product-carbon", "epd"}

// FindLandingPage auto-discovers the PCF landing page for a brand when the
// caller supplies none. It returns the first relevance-ranked hit whose URL
// carries footprint or sustainability vocabulary.
func FindLandingPage(ctx context.Context, searcher discovery.Searcher, brand string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		return "", fmt.Errorf("brand is required to locate a landing page")
	}

	q := discovery.Query{
		Site: brand + ".com",
		Text: `("product carbon footprint" OR "product environmental report" OR sustainability)`,
	}
	hits, err := searcher.Search(ctx, q)
	if err != nil {
		return "", fmt.Errorf("landing page search: %w", err)
	}
	for _, hit := range hits {
		lower := strings.ToLower(hit.URL)
		for _, kw := range landingVocabulary {
			if strings.Contains(lower, kw) {
				logger.Info("Auto-detected landing page",
					zap.String("brand", brand), zap.String("url", hit.URL))
				return hit.URL, nil
			}
		}
	}
	return "", fmt.Errorf("no landing page found for brand %q", brand)
}
