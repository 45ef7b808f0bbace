// Package downloader drives a full download run: crawl the archive, then
// process each episode page strictly sequentially with a fixed pause.
package downloader

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/podarc/bbdl/internal/archive"
	"github.com/podarc/bbdl/internal/episode"
)

// Downloader orchestrates one run over a podcast archive.
type Downloader struct {
	crawler   *archive.Crawler
	processor *episode.Processor
	pause     time.Duration
	logger    *zap.Logger
}

// New wires a crawler and processor into a run driver. pause is the
// unconditional delay inserted after every episode attempt.
func New(crawler *archive.Crawler, processor *episode.Processor, pause time.Duration, logger *zap.Logger) *Downloader {
	return &Downloader{
		crawler:   crawler,
		processor: processor,
		pause:     pause,
		logger:    logger,
	}
}

// Run crawls the full archive, then processes each episode page in order.
// A crawl failure is fatal and returned to the caller; per-episode failures
// are logged and skipped. Run returns the number of episodes processed
// without error.
func (d *Downloader) Run(ctx context.Context, podcast string) (int, error) {
	pageURLs, err := d.crawler.EpisodePages(ctx, podcast)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, pageURL := range pageURLs {
		if err := d.processor.Process(ctx, pageURL); err != nil {
			d.logger.Error("failed to download episode",
				zap.String("url", pageURL), zap.Error(err))
		} else {
			processed++
		}

		// Throttle against the remote host after every attempt, whether it
		// succeeded, was skipped, or failed.
		sleep(ctx, d.pause)
	}

	d.logger.Info("run complete", zap.Int("episodes_processed", processed))
	return processed, nil
}

// sleep waits for delay or until ctx is canceled, whichever comes first.
func sleep(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
