package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"twitterhistory/pkg/config"
	"twitterhistory/pkg/logger"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twitterhistory",
	Short: "Download and analyze the post history of a Twitter account or hashtag",
	Long: `TwitterHistory downloads the post history of an account or hashtag page
by page, stores each run as a JSON artifact, and derives two views from it:
a per-day activity chart and a multi-sheet spreadsheet export with optional
keyword/hashtag filters.

Typical session:

  twitterhistory down elonmusk -p 20
  twitterhistory plot data/elonmusk_2026-08-28_0915/data.json
  twitterhistory xl data/elonmusk_2026-08-28_0915/data.json -f '#tesla' -f spacex`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.twitterhistory.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`TwitterHistory {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig resolves the final configuration from defaults, config file,
// environment and the given flag overrides, then initializes logging.
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return cfg, nil
}
