// Package fetch implements the HTTP fetch capability consumed by the
// discovery pipeline, built on the Colly collector. Retry, backoff, and
// identifying headers live here so the pipeline can treat any failure
// uniformly as "no content from this URL".
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/discovery"
)

// Config controls collector behavior.
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	Delay         time.Duration
	RespectRobots bool
}

// Client implements discovery.Fetcher using a cloned Colly collector per
// request.
type Client struct {
	cfg    Config
	base   *colly.Collector
	policy *retryPolicy
	logger *zap.Logger
}

// NewClient builds a Client with a pooled transport and a per-domain delay.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := colly.NewCollector()
	if cfg.UserAgent != "" {
		base.UserAgent = cfg.UserAgent
	}
	// Revisits are legitimate here: retries re-request the same URL and the
	// crawl layer keeps its own visited set.
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = !cfg.RespectRobots
	base.SetRequestTimeout(cfg.Timeout)
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	if cfg.Delay > 0 {
		if err := base.Limit(&colly.LimitRule{DomainGlob: "*", Delay: cfg.Delay}); err != nil {
			return nil, fmt.Errorf("set collector limits: %w", err)
		}
	}

	return &Client{
		cfg:    cfg,
		base:   base,
		policy: newRetryPolicy(cfg.MaxRetries),
		logger: logger,
	}, nil
}

// Fetch retrieves one URL, retrying with jittered backoff on retryable
// failures. Retries after the first attempt carry a Referer pointing at the
// site root, which unblocks some hotlink-protected document servers.
func (c *Client) Fetch(ctx context.Context, rawURL string) (discovery.Page, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		page, err := c.attempt(ctx, rawURL, attempt > 0)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !c.policy.ShouldRetry(err, attempt+1) {
			break
		}
		wait := c.policy.Backoff(attempt)
		c.logger.Warn("Fetch failed, backing off",
			zap.String("url", rawURL), zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait), zap.Error(err))
		select {
		case <-ctx.Done():
			return discovery.Page{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
	return discovery.Page{}, fmt.Errorf("fetch %s: %w", rawURL, lastErr)
}

func (c *Client) attempt(ctx context.Context, rawURL string, withReferer bool) (discovery.Page, error) {
	collector := c.base.Clone()

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() { resultCh <- res })
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		if withReferer {
			if ref := siteRoot(rawURL); ref != "" {
				r.Headers.Set("Referer", ref)
			}
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		headers := http.Header{}
		if r.Headers != nil {
			for k, v := range *r.Headers {
				headers[k] = append([]string(nil), v...)
			}
		}
		send(fetchResult{page: discovery.Page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte(nil), r.Body...),
		}})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		if r != nil && r.StatusCode != 0 {
			err = fmt.Errorf("status %d: %w", r.StatusCode, err)
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		return discovery.Page{}, fmt.Errorf("visit: %w", err)
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return discovery.Page{}, err
		}
		return res.page, res.err
	default:
		return discovery.Page{}, errors.New("fetch produced no result")
	}
}

type fetchResult struct {
	page discovery.Page
	err  error
}

func siteRoot(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s/", u.Scheme, u.Host)
}
