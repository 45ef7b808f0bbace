package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViperWithDefaults() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	t.Parallel()

	v := newViperWithDefaults()
	v.Set("podcast.name", "somepodcast")

	cfg, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}

	if cfg.Podcast.Name != "somepodcast" {
		t.Fatalf("expected podcast name to be set, got %q", cfg.Podcast.Name)
	}
	if cfg.Podcast.BaseURL != "https://blubrry.com" {
		t.Fatalf("unexpected base url: %q", cfg.Podcast.BaseURL)
	}
	if cfg.Output.Dir != "data/episodes" {
		t.Fatalf("unexpected output dir: %q", cfg.Output.Dir)
	}
	if cfg.Download.Pause != time.Second {
		t.Fatalf("expected 1s pause, got %v", cfg.Download.Pause)
	}
	if cfg.Download.Overwrite {
		t.Fatal("overwrite should default to false")
	}
	if got := cfg.ConnectTimeout(); got != 5*time.Second {
		t.Fatalf("expected 5s connect timeout, got %v", got)
	}
	if got := cfg.ReadTimeout(); got != 20*time.Second {
		t.Fatalf("expected 20s read timeout, got %v", got)
	}
	if !cfg.Logging.Development {
		t.Fatal("logging should default to development mode")
	}
}

func TestFromViperOverrides(t *testing.T) {
	t.Parallel()

	v := newViperWithDefaults()
	v.Set("podcast.name", "somepodcast")
	v.Set("download.pause", "250ms")
	v.Set("download.overwrite", true)
	v.Set("output.dir", "/tmp/episodes")

	cfg, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}
	if cfg.Download.Pause != 250*time.Millisecond {
		t.Fatalf("expected 250ms pause, got %v", cfg.Download.Pause)
	}
	if !cfg.Download.Overwrite {
		t.Fatal("expected overwrite override to apply")
	}
	if cfg.Output.Dir != "/tmp/episodes" {
		t.Fatalf("expected output dir override, got %q", cfg.Output.Dir)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Podcast: PodcastConfig{Name: "somepodcast", BaseURL: "https://blubrry.com"},
		Output:  OutputConfig{Dir: "data/episodes"},
		Download: DownloadConfig{
			Pause:             time.Second,
			ConnectTimeoutSec: 5,
			ReadTimeoutSec:    20,
		},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing podcast name",
			cfg: func() Config {
				c := base
				c.Podcast.Name = " "
				return c
			}(),
			want: "podcast.name",
		},
		{
			name: "missing base url",
			cfg: func() Config {
				c := base
				c.Podcast.BaseURL = ""
				return c
			}(),
			want: "podcast.base_url",
		},
		{
			name: "missing output dir",
			cfg: func() Config {
				c := base
				c.Output.Dir = ""
				return c
			}(),
			want: "output.dir",
		},
		{
			name: "negative pause",
			cfg: func() Config {
				c := base
				c.Download.Pause = -time.Second
				return c
			}(),
			want: "download.pause",
		},
		{
			name: "invalid connect timeout",
			cfg: func() Config {
				c := base
				c.Download.ConnectTimeoutSec = 0
				return c
			}(),
			want: "download.connect_timeout_seconds",
		},
		{
			name: "invalid read timeout",
			cfg: func() Config {
				c := base
				c.Download.ReadTimeoutSec = 0
				return c
			}(),
			want: "download.read_timeout_seconds",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
