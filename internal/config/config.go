// Package config loads and validates downloader configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob of a download run. All values originate from
// Viper so the tool can be configured via a file, env vars, or CLI flags.
type Config struct {
	Podcast  PodcastConfig  `mapstructure:"podcast"`
	Output   OutputConfig   `mapstructure:"output"`
	Download DownloadConfig `mapstructure:"download"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PodcastConfig identifies the podcast archive to walk.
type PodcastConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
}

// OutputConfig sets where episode artifacts are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// DownloadConfig governs pacing and overwrite behavior.
type DownloadConfig struct {
	Pause             time.Duration `mapstructure:"pause"`
	Overwrite         bool          `mapstructure:"overwrite"`
	ConnectTimeoutSec int           `mapstructure:"connect_timeout_seconds"`
	ReadTimeoutSec    int           `mapstructure:"read_timeout_seconds"`
}

// HTTPConfig configures the shared page-fetching client.
type HTTPConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// SetDefaults registers default values on the given Viper instance.
// Called once at startup before flags and config files are merged in.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("podcast.base_url", "https://blubrry.com")
	v.SetDefault("output.dir", "data/episodes")
	v.SetDefault("download.pause", "1s")
	v.SetDefault("download.overwrite", false)
	v.SetDefault("download.connect_timeout_seconds", 5)
	v.SetDefault("download.read_timeout_seconds", 20)
	v.SetDefault("http.user_agent", "bbdl/1.0 (+https://github.com/podarc/bbdl)")
	v.SetDefault("logging.development", true)
}

// BindEnv enables BBDL_* environment variable overrides, e.g.
// BBDL_PODCAST_NAME or BBDL_DOWNLOAD_OVERWRITE.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("BBDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper builds a Config from the merged Viper state.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Podcast.Name) == "" {
		return fmt.Errorf("podcast.name must be set")
	}
	if strings.TrimSpace(c.Podcast.BaseURL) == "" {
		return fmt.Errorf("podcast.base_url must be set")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir must be set")
	}
	if c.Download.Pause < 0 {
		return fmt.Errorf("download.pause must be >= 0")
	}
	if c.Download.ConnectTimeoutSec <= 0 {
		return fmt.Errorf("download.connect_timeout_seconds must be > 0")
	}
	if c.Download.ReadTimeoutSec <= 0 {
		return fmt.Errorf("download.read_timeout_seconds must be > 0")
	}
	return nil
}

// ConnectTimeout returns the audio dial timeout as a duration.
func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Download.ConnectTimeoutSec) * time.Second
}

// ReadTimeout returns the audio response timeout as a duration.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.Download.ReadTimeoutSec) * time.Second
}
