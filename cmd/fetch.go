package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/podarc/bbdl/internal/archive"
	"github.com/podarc/bbdl/internal/config"
	"github.com/podarc/bbdl/internal/downloader"
	"github.com/podarc/bbdl/internal/episode"
	"github.com/podarc/bbdl/internal/fetch"
	"github.com/podarc/bbdl/internal/logging"
)

// newFetchCmd creates and configures the 'fetch' subcommand, which runs one
// full archive crawl and episode download pass.
func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Crawl a podcast archive and download its episodes",
		Long: `Walks the podcast's archive listings page by page, collects every episode
page URL, then downloads each episode's audio file and writes a sibling
<name>-metadata.json, pausing between episodes to stay polite.`,

		RunE: runFetchCommand,
	}

	cmd.Flags().StringP("podcast", "p", "", "name of the podcast to download")
	cmd.Flags().StringP("output-dir", "o", "", "directory to save episode downloads")
	cmd.Flags().Duration("pause", time.Second, "pause between episode downloads")
	cmd.Flags().Bool("overwrite", false, "overwrite existing files")

	v := viper.GetViper()
	_ = v.BindPFlag("podcast.name", cmd.Flags().Lookup("podcast"))
	_ = v.BindPFlag("output.dir", cmd.Flags().Lookup("output-dir"))
	_ = v.BindPFlag("download.pause", cmd.Flags().Lookup("pause"))
	_ = v.BindPFlag("download.overwrite", cmd.Flags().Lookup("overwrite"))

	return cmd
}

func runFetchCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	// Ctrl-C cancels in-flight fetches and the inter-episode pause.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pages := fetch.NewPageClient(cfg.HTTP.UserAgent)
	audio := fetch.NewAudioClient(cfg.ConnectTimeout(), cfg.ReadTimeout(), cfg.HTTP.UserAgent)

	crawler := archive.NewCrawler(pages, cfg.Podcast.BaseURL, logger)
	processor, err := episode.NewProcessor(pages, audio, cfg.Output.Dir, cfg.Download.Overwrite, logger)
	if err != nil {
		return fmt.Errorf("init output dir: %w", err)
	}

	dl := downloader.New(crawler, processor, cfg.Download.Pause, logger)
	count, err := dl.Run(ctx, cfg.Podcast.Name)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cfg.Podcast.Name, err)
	}

	logger.Info("Complete.", zap.Int("episodes_downloaded", count))
	return nil
}
