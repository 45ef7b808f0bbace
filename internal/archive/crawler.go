// Package archive walks a podcast's paginated archive listings and collects
// episode page URLs.
package archive

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/podarc/bbdl/internal/fetch"
)

const (
	// pageParam is the archive listing's page index query parameter.
	pageParam = "pi"
	// episodeLinkSelector matches the episode-title anchors on a listing.
	episodeLinkSelector = "a.pr-title"
)

// Crawler enumerates episode page URLs for one podcast.
type Crawler struct {
	client  *fetch.Client
	baseURL string
	logger  *zap.Logger
}

// NewCrawler returns a crawler rooted at baseURL (e.g. https://blubrry.com).
func NewCrawler(client *fetch.Client, baseURL string, logger *zap.Logger) *Crawler {
	return &Crawler{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// EpisodePages walks archive pages starting at index 0 until one yields no
// episode links, and returns the distinct episode page URLs found, in
// first-encountered document order. Any fetch failure aborts the crawl;
// the caller treats it as fatal for the whole run.
func (c *Crawler) EpisodePages(ctx context.Context, podcast string) ([]string, error) {
	archiveURL, err := url.JoinPath(c.baseURL, podcast, "archive")
	if err != nil {
		return nil, fmt.Errorf("build archive url: %w", err)
	}
	c.logger.Info("retrieving episode pages", zap.String("archive_url", archiveURL))

	var all []string
	seen := make(map[string]struct{})

	for page := 0; ; page++ {
		links, err := c.fetchListing(ctx, archiveURL, page)
		if err != nil {
			return nil, fmt.Errorf("archive page %d: %w", page, err)
		}

		// An empty page is the end-of-archive sentinel. It is not retried
		// and is indistinguishable from a genuinely empty archive.
		if len(links) == 0 {
			c.logger.Debug("found empty archive page", zap.Int("page", page))
			break
		}

		for _, link := range links {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			all = append(all, link)
		}
	}

	c.logger.Debug("archive crawl complete", zap.Int("episode_pages", len(all)))
	return all, nil
}

// fetchListing retrieves one archive page and returns its episode link
// hrefs in document order.
func (c *Crawler) fetchListing(ctx context.Context, archiveURL string, page int) ([]string, error) {
	pageURL := archiveURL + "?" + pageParam + "=" + strconv.Itoa(page)

	resp, err := c.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	var links []string
	doc.Find(episodeLinkSelector).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links, nil
}
