package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anatolykoptev/go-pixgallery"
	"github.com/anatolykoptev/go-pixgallery/gemini"
	"github.com/anatolykoptev/go-pixgallery/kvstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	strategy   string
	cachePath  string
	perPage    int
	verbose    bool

	cfg *fileConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pixgallery",
		Short: "Search Pixabay photos and tag them with object detection",
		Long: `pixgallery searches the Pixabay photo API page by page and tags every
photo, either with labels from a Gemini vision model (cached per image URL)
or with the tags Pixabay already returns.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", filepath.Join(defaultConfigDir(), "config.yaml"), "config file")
	cmd.PersistentFlags().StringVar(&opts.strategy, "strategy", "", "tagging strategy: detect or native (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.cachePath, "cache", "", "analysis cache database (overrides config)")
	cmd.PersistentFlags().IntVar(&opts.perPage, "per-page", 0, "hits per page (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newCacheCmd(opts))

	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	optional := !cmd.Flags().Changed("config")
	cfg, err := loadConfig(o.configPath, optional)
	if err != nil {
		return err
	}
	if o.strategy != "" {
		cfg.Strategy = o.strategy
	}
	if o.cachePath != "" {
		cfg.CachePath = expandHome(o.cachePath)
	}
	if o.perPage > 0 {
		cfg.PerPage = o.perPage
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *rootOptions) libraryConfig() pixgallery.Config {
	return pixgallery.Config{
		APIKey:            o.cfg.APIKey,
		BaseURL:           o.cfg.BaseURL,
		PageSize:          o.cfg.PerPage,
		DefaultQuery:      o.cfg.DefaultQuery,
		EnrichConcurrency: o.cfg.Concurrency,
	}
}

// enricher builds the configured tagging strategy. The returned cleanup
// closes the cache and the detector client, if any were opened.
func (o *rootOptions) enricher() (pixgallery.Enricher, func(), error) {
	if o.cfg.Strategy == strategyNative {
		return pixgallery.NativeTagEnricher{}, func() {}, nil
	}

	store, err := kvstore.Open(o.cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}

	var det *gemini.Detector
	factory := func(ctx context.Context) (pixgallery.Detector, error) {
		d, err := gemini.New(ctx, gemini.Options{APIKey: o.cfg.Gemini.APIKey, Model: o.cfg.Gemini.Model})
		if err != nil {
			return nil, err
		}
		det = d
		return d, nil
	}

	cleanup := func() {
		if det != nil {
			if err := det.Close(); err != nil {
				slog.Warn("pixgallery: closing detector", "error", err.Error())
			}
		}
		if err := store.Close(); err != nil {
			slog.Warn("pixgallery: closing cache", "error", err.Error())
		}
	}

	e := pixgallery.NewDetectionEnricher(factory, store, pixgallery.DetectionOpts{})
	return e, cleanup, nil
}

func (o *rootOptions) requireAPIKey() error {
	if o.cfg.APIKey == "" {
		return fmt.Errorf("no Pixabay API key: set api_key in %s or PIXABAY_API_KEY", o.configPath)
	}
	return nil
}
