// Package episode fetches episode detail pages and persists their audio and
// metadata as flat files.
package episode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/podarc/bbdl/internal/fetch"
)

// downloadLinkSelector matches the audio download anchor on an episode page.
const downloadLinkSelector = `a[title="Download Episode"]`

// metadataSuffix replaces the audio extension to form the metadata path.
const metadataSuffix = "-metadata.json"

// Processor fetches one episode page at a time and writes audio plus
// metadata under the output directory.
type Processor struct {
	pages     *fetch.Client
	audio     *fetch.Client
	outDir    string
	overwrite bool
	logger    *zap.Logger
}

// NewProcessor returns a processor rooted at outDir, creating the directory
// if needed. It fails if the path exists as a non-directory.
func NewProcessor(pages, audio *fetch.Client, outDir string, overwrite bool, logger *zap.Logger) (*Processor, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	info, err := os.Stat(outDir)
	if err != nil {
		return nil, fmt.Errorf("stat output dir %s: %w", outDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output dir %s is not a directory", outDir)
	}
	return &Processor{
		pages:     pages,
		audio:     audio,
		outDir:    outDir,
		overwrite: overwrite,
		logger:    logger,
	}, nil
}

// Process fetches the episode page, locates the downloadable audio link, and
// persists audio and metadata if not already present (or unconditionally
// when overwrite is set). A missing download link or underivable file name
// is a normal outcome, not an error; fetch and write failures propagate so
// the caller can log and move on to the next episode.
func (p *Processor) Process(ctx context.Context, pageURL string) error {
	p.logger.Info("checking episode page", zap.String("url", pageURL))

	doc, err := p.fetchPage(ctx, pageURL)
	if err != nil {
		return err
	}

	audioURLs := downloadLinks(doc)
	if len(audioURLs) == 0 {
		p.logger.Warn("found no audio download links", zap.String("url", pageURL))
		return nil
	}
	if len(audioURLs) > 1 {
		// Known ambiguity on some pages; take the first in document order.
		p.logger.Warn("found multiple audio links, downloading first in document order",
			zap.String("url", pageURL), zap.Int("count", len(audioURLs)))
	}
	audioURL := audioURLs[0]

	audioFileName := fileNameFromURL(audioURL)
	if audioFileName == "" {
		p.logger.Error("failed to get file name from audio url", zap.String("audio_url", audioURL))
		return nil
	}
	audioPath := filepath.Join(p.outDir, audioFileName)

	if p.overwrite || !fileExists(audioPath) {
		if err := p.downloadAudio(ctx, audioURL, audioPath); err != nil {
			return err
		}
	}

	metadataPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + metadataSuffix
	if p.overwrite || !fileExists(metadataPath) {
		if err := p.writeMetadata(doc, pageURL, metadataPath); err != nil {
			return err
		}
	}

	return nil
}

func (p *Processor) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := p.pages.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse episode page %s: %w", pageURL, err)
	}
	return doc, nil
}

func (p *Processor) downloadAudio(ctx context.Context, audioURL, audioPath string) error {
	p.logger.Info("downloading audio",
		zap.String("audio_url", audioURL), zap.String("path", audioPath))

	resp, err := p.audio.Get(ctx, audioURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read audio body %s: %w", audioURL, err)
	}
	if err := os.WriteFile(audioPath, body, 0o600); err != nil {
		return fmt.Errorf("write audio %s: %w", audioPath, err)
	}
	return nil
}

func (p *Processor) writeMetadata(doc *goquery.Document, pageURL, metadataPath string) error {
	md := ExtractMetadata(doc, p.logger)
	if len(md) == 0 {
		p.logger.Info("no metadata found", zap.String("url", pageURL))
		return nil
	}

	p.logger.Info("writing metadata", zap.String("path", metadataPath))
	payload, err := marshalMetadata(md)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, payload, 0o600); err != nil {
		return fmt.Errorf("write metadata %s: %w", metadataPath, err)
	}
	return nil
}

// marshalMetadata renders the record with two-space indentation and HTML
// escaping disabled so URLs and non-ASCII text stay literal.
func marshalMetadata(md Metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(md); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// downloadLinks returns the hrefs of all download anchors on the page, in
// document order, de-duplicated.
func downloadLinks(doc *goquery.Document) []string {
	var links []string
	seen := make(map[string]struct{})
	doc.Find(downloadLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}

// fileNameFromURL derives a local file name from the URL's path basename.
// It returns "" when no basename can be derived: an empty path, the root
// path, or a path ending in "/" (a directory reference, not a file).
func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	return path.Base(u.Path)
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
