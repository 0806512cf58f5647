package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/config"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/discovery"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/download"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/fetch"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/hash/sha256"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/id/uuid"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/search"
)

// newHarvestCmd creates the 'harvest' subcommand: discover PCF PDFs for one
// brand and product type, then download the verified documents.
func newHarvestCmd() *cobra.Command {
	var (
		brand        string
		productType  string
		landingURL   string
		skipDownload bool
	)

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Discover and download PCF reports for a brand and product type",
		Long: `Runs the discovery pipeline (hub navigation, bounded same-domain crawl,
search fallback) for one brand/product-type pair and downloads the resulting
PDF documents into a content-addressed directory layout.

When --landing-url is omitted, the external search index is queried to
auto-locate the brand's PCF landing page.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			return runHarvest(cmd, env, brand, productType, landingURL, skipDownload)
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "brand name, e.g. dell")
	cmd.Flags().StringVar(&productType, "product-type", "", "product category, e.g. laptops")
	cmd.Flags().StringVar(&landingURL, "landing-url", "", "PCF landing page URL (auto-discovered when omitted)")
	cmd.Flags().BoolVar(&skipDownload, "skip-download", false, "discover only, do not download documents")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("product-type")

	return cmd
}

func runHarvest(cmd *cobra.Command, env *appEnv, brand, productType, landingURL string, skipDownload bool) error {
	ctx := cmd.Context()
	cfg := env.cfg
	logger := env.logger

	fetcher, err := fetch.NewClient(fetch.Config{
		UserAgent:     cfg.HTTP.UserAgent,
		Timeout:       cfg.Timeout(),
		MaxRetries:    cfg.HTTP.MaxRetries,
		Delay:         cfg.Delay(),
		RespectRobots: cfg.HTTP.RespectRobots,
	}, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	searcher := search.NewExaClient(search.Config{
		Endpoint:   cfg.Search.Endpoint,
		APIKey:     cfg.Search.APIKey,
		UserAgent:  cfg.HTTP.UserAgent,
		NumResults: cfg.Search.NumResults,
		Timeout:    cfg.Timeout(),
		QPS:        cfg.Search.QPS,
	}, logger)

	if landingURL == "" {
		landingURL, err = search.FindLandingPage(ctx, searcher, brand, logger)
		if err != nil {
			return fmt.Errorf("locate landing page for %q: %w", brand, err)
		}
	}

	orchestrator := buildOrchestrator(cfg, fetcher, searcher, logger)
	result := orchestrator.Discover(ctx, discovery.Request{
		Brand:       brand,
		ProductType: productType,
		LandingURL:  landingURL,
	})

	var saved []download.Record
	if cfg.Download.Enabled && !skipDownload && len(result.PDFs) > 0 {
		dl, err := download.New(fetcher, sha256.New(), cfg.Download.Dir, logger)
		if err != nil {
			return fmt.Errorf("init downloader: %w", err)
		}
		saved = dl.DownloadAll(ctx, brand, result.PDFs)
	}

	printSummary(cmd, result, saved)
	logger.Info("Harvest finished",
		zap.String("run_id", result.RunID),
		zap.Int("found", len(result.PDFs)),
		zap.Int("downloaded", len(saved)))
	return nil
}

func buildOrchestrator(cfg config.Config, fetcher discovery.Fetcher, searcher discovery.Searcher, logger *zap.Logger) *discovery.Orchestrator {
	rubric := discovery.DefaultRubric()
	rubric.Threshold = cfg.Discovery.HubThreshold

	extractor := discovery.NewExtractor(logger)
	navigator := discovery.NewNavigator(rubric, logger)
	crawler := discovery.NewCrawler(fetcher, extractor, discovery.Limits{
		MaxDepth: cfg.Discovery.MaxDepth,
		MaxPages: cfg.Discovery.MaxPages,
		MaxPDFs:  cfg.Discovery.MaxPDFs,
	}, logger)
	fallback := discovery.NewFallback(searcher, cfg.Search.MaxQueries, logger)

	return discovery.NewOrchestrator(
		fetcher, navigator, crawler, fallback, uuid.NewGenerator(),
		cfg.Discovery.TargetCount, cfg.Discovery.MaxTotal, logger,
	)
}

func printSummary(cmd *cobra.Command, result discovery.Result, saved []download.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary")
	fmt.Fprintln(out, "-------")
	fmt.Fprintf(out, "Brand / Type:   %s / %s\n", result.Brand, result.ProductType)
	fmt.Fprintf(out, "Landing URL:    %s\n", result.LandingURL)
	fmt.Fprintf(out, "Reports hub:    %s\n", valueOr(result.HubURL, "(landing page)"))
	if result.SectionURL != "" {
		fmt.Fprintf(out, "Section:        %s\n", result.SectionURL)
	}
	fmt.Fprintf(out, "Pages visited:  %d\n", result.Counters.PagesVisited)
	fmt.Fprintf(out, "Candidates:     %d seen, %d accepted\n",
		result.Counters.CandidatesSeen, result.Counters.CandidatesAccepted)
	if result.Counters.ParseWarnings > 0 {
		fmt.Fprintf(out, "Parse warnings: %d\n", result.Counters.ParseWarnings)
	}
	if result.Counters.SearchQueries > 0 {
		fmt.Fprintf(out, "Search queries: %d\n", result.Counters.SearchQueries)
	}
	fmt.Fprintf(out, "PDFs found:     %d\n", len(result.PDFs))
	fmt.Fprintf(out, "Downloaded:     %d\n", len(saved))
	for _, rec := range saved {
		fmt.Fprintf(out, "  %s (%d bytes) <- %s\n", rec.File, rec.Bytes, rec.URL)
	}
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
