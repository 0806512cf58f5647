// Package download turns discovered PDF URLs into content-addressed files on
// disk. It re-verifies content type before persisting; discovery makes no
// reachability or type guarantees.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/discovery"
)

// Hasher computes digests for content addressing.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Record describes one saved document.
type Record struct {
	URL   string `json:"url"`
	File  string `json:"file"`
	Bytes int    `json:"bytes"`
	Text  string `json:"text,omitempty"`
}

// Downloader saves PDFs under <root>/<brand>/<digest>.pdf.
type Downloader struct {
	fetcher discovery.Fetcher
	hasher  Hasher
	root    string
	logger  *zap.Logger
}

// New returns a downloader rooted at dir.
func New(fetcher discovery.Fetcher, hasher Hasher, root string, logger *zap.Logger) (*Downloader, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create download dir %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{fetcher: fetcher, hasher: hasher, root: root, logger: logger}, nil
}

// DownloadAll fetches every candidate and persists those that verify as PDF.
// Individual failures are logged and skipped; DownloadAll never fails the
// run.
func (d *Downloader) DownloadAll(ctx context.Context, brand string, links []discovery.CandidateLink) []Record {
	brandDir := filepath.Join(d.root, strings.ToLower(strings.TrimSpace(brand)))
	if err := os.MkdirAll(brandDir, 0o750); err != nil {
		d.logger.Error("Failed to create brand directory", zap.String("dir", brandDir), zap.Error(err))
		return nil
	}

	var saved []Record
	for i, link := range links {
		if ctx.Err() != nil {
			break
		}
		rec, err := d.downloadOne(ctx, brandDir, link)
		if err != nil {
			d.logger.Warn("Download failed", zap.String("url", link.URL), zap.Error(err))
			continue
		}
		saved = append(saved, rec)
		d.logger.Info("Saved document",
			zap.Int("index", i+1), zap.Int("total", len(links)), zap.String("file", rec.File))
	}
	return saved
}

func (d *Downloader) downloadOne(ctx context.Context, dir string, link discovery.CandidateLink) (Record, error) {
	page, err := d.fetcher.Fetch(ctx, link.URL)
	if err != nil {
		return Record{}, fmt.Errorf("fetch document: %w", err)
	}
	if len(page.Body) == 0 {
		return Record{}, fmt.Errorf("empty document body")
	}

	contentType := strings.ToLower(page.Headers.Get("Content-Type"))
	if !strings.Contains(contentType, "pdf") && !discovery.IsPDFURL(page.FinalURL) && !discovery.IsPDFURL(link.URL) {
		return Record{}, fmt.Errorf("not a pdf (content-type %q)", contentType)
	}

	digest, err := d.hasher.Hash(page.Body)
	if err != nil {
		return Record{}, fmt.Errorf("hash document: %w", err)
	}
	target := filepath.Join(dir, digest[:16]+".pdf")
	if err := os.WriteFile(target, page.Body, 0o600); err != nil {
		return Record{}, fmt.Errorf("write %s: %w", target, err)
	}
	return Record{URL: link.URL, File: target, Bytes: len(page.Body), Text: link.Text}, nil
}
