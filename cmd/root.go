// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/BeamlakAschalew/movie-providers/internal/config"
	"github.com/BeamlakAschalew/movie-providers/internal/fetch"
	"github.com/BeamlakAschalew/movie-providers/internal/log"
	"github.com/BeamlakAschalew/movie-providers/internal/scraper"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagJSON        bool
	flagDebug       bool
	flagPlayer      string
	flagTarget      string
	flagFeatures    []string
	flagProxy       string
	flagSourceOrder []string
	flagEmbedOrder  []string
	flagFlixHQBase  string
)

var (
	// cfg holds the loaded configuration (merged: defaults < config file < flags).
	cfg *config.Config
	// logger carries the run id of this invocation.
	logger logrus.FieldLogger = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:   "movie-providers",
	Short: "Resolve a playable stream for a movie or show",
	Long: `movie-providers tries its sources in priority order, follows the embed
links they return, and hands the first playable stream to a player or prints it as JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print the result as JSON instead of playing it")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().StringVarP(&flagTarget, "target", "t", "", "Playback target: browser | browser-extension | native | any")
	rootCmd.PersistentFlags().StringSliceVar(&flagFeatures, "features", nil, "Explicit feature flags, overriding the target")
	rootCmd.PersistentFlags().StringVar(&flagProxy, "proxy", "", "Proxy URL for proxied requests")
	rootCmd.PersistentFlags().StringSliceVar(&flagSourceOrder, "source-order", nil, "Source ids to try first")
	rootCmd.PersistentFlags().StringSliceVar(&flagEmbedOrder, "embed-order", nil, "Embed ids to try first")
	rootCmd.PersistentFlags().StringVar(&flagFlixHQBase, "flixhq-base", "", "FlixHQ host")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagTarget != "" {
		cfg.Target = flagTarget
		cfg.Features = nil
	}
	if len(flagFeatures) > 0 {
		cfg.Features = flagFeatures
	}
	if flagProxy != "" {
		cfg.ProxyURL = flagProxy
	}
	if len(flagSourceOrder) > 0 {
		cfg.SourceOrder = flagSourceOrder
	}
	if len(flagEmbedOrder) > 0 {
		cfg.EmbedOrder = flagEmbedOrder
	}
	if flagFlixHQBase != "" {
		cfg.FlixHQBase = flagFlixHQBase
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = log.New(log.Options{
		Level: log.LevelFor(cfg.Debug),
		JSON:  cfg.LogJSON,
	}).WithField("run", uuid.NewString())

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// newControls builds the scraper from the loaded configuration.
func newControls() (*scraper.Controls, error) {
	enabled, err := cfg.EnabledFeatures()
	if err != nil {
		return nil, err
	}

	opts := scraper.Options{
		Fetcher:    fetch.NewClient(),
		Features:   enabled,
		FlixHQBase: cfg.FlixHQBase,
		Logger:     logger,
	}
	if cfg.ProxyURL != "" {
		proxied, err := fetch.NewProxied(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		opts.ProxiedFetcher = proxied
		debugf("proxying requests through %s", cfg.ProxyURL)
	}

	debugf("enabled features: %v", enabled)
	return scraper.New(opts)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
