// Package cmd defines and implements the CLI commands for the bbdl executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/podarc/bbdl/internal/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bbdl",
		Short: "Download podcast episodes and metadata from a Blubrry archive",
		Long: `bbdl walks the paginated archive of a named podcast hosted on Blubrry,
extracts each episode's audio download link and Open Graph metadata, and
saves both as flat files in a local directory. Files already present are
skipped unless --overwrite is set.`,

		// Merge defaults, config file, and env vars before any subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.GetViper()
			config.SetDefaults(v)
			config.BindEnv(v)

			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", cfgFile, err)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	cmd.AddCommand(newFetchCmd())

	return cmd
}

// Execute is the main entry point. It exits with code 1 on any fatal setup
// or crawl error; partial per-episode failures still exit 0.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
