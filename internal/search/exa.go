// Package search implements the external search capability against the Exa
// API. The discovery pipeline consumes it through the discovery.Searcher
// interface and treats result order as relevance-ranked.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/discovery"
)

// DefaultEndpoint is the Exa search API.
const DefaultEndpoint = "https://api.exa.ai/search"

// Config controls the Exa client.
type Config struct {
	Endpoint   string
	APIKey     string
	UserAgent  string
	NumResults int
	Timeout    time.Duration
	QPS        float64
}

// ExaClient issues structured queries against the Exa search API, throttled
// by a token-bucket limiter so fallback bursts stay polite.
type ExaClient struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewExaClient builds a client. A zero QPS defaults to roughly one query per
// second.
func NewExaClient(cfg Config, logger *zap.Logger) *ExaClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.NumResults <= 0 {
		cfg.NumResults = 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.QPS <= 0 {
		cfg.QPS = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExaClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.QPS), 1),
		logger:  logger,
	}
}

type exaRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
}

type exaHit struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type exaResponse struct {
	Results   []exaHit `json:"results"`
	Documents []exaHit `json:"documents"`
}

// Search renders the query with its site and file-type restrictions and
// returns the hits in backend order.
func (c *ExaClient) Search(ctx context.Context, q discovery.Query) ([]discovery.SearchResult, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("exa api key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search throttle: %w", err)
	}

	rendered := renderQuery(q)
	payload, err := json.Marshal(exaRequest{Query: rendered, NumResults: c.cfg.NumResults})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := parsed.Results
	if len(hits) == 0 {
		hits = parsed.Documents
	}
	out := make([]discovery.SearchResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, discovery.SearchResult{URL: h.URL, Title: h.Title})
	}
	c.logger.Debug("Search query complete", zap.String("query", rendered), zap.Int("hits", len(out)))
	return out, nil
}

func renderQuery(q discovery.Query) string {
	var parts []string
	if q.Site != "" {
		parts = append(parts, "site:"+q.Site)
	}
	if q.FileType != "" {
		parts = append(parts, "filetype:"+q.FileType)
	}
	if q.Text != "" {
		parts = append(parts, q.Text)
	}
	return strings.Join(parts, " ")
}
