// Package cli defines the gallery command line.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"gallery/internal/app"
	"gallery/internal/catalog"
	"gallery/internal/config"
	"gallery/internal/image"
	"gallery/internal/logging"
	"gallery/ui/gallery"
	"gallery/ui/mainwindow"
	"gallery/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appID = "io.gallery.viewer"

type rootOptions struct {
	configPath string
	catalog    string
	logLevel   string
	watch      bool
}

// runApp starts the desktop UI; replaced in tests.
var runApp = run

// NewRootCmd builds the gallery command.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "gallery [catalog]",
		Short: "Browse a product catalog and inspect product images",
		Long: `Gallery shows the available products of a JSON catalog as a grid of cards.
Selecting a card opens a detail view where the product image can be panned
by dragging and zoomed with the mouse wheel or the zoom slider.

The catalog is a local file or an http(s) URL.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts, args, prefs.Load(), os.LookupEnv)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog file path or URL")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload when a local catalog file changes")

	return cmd
}

// resolveConfig merges, in increasing precedence: defaults, the config
// file, the last catalog from preferences, the environment and the command
// line.
func resolveConfig(cmd *cobra.Command, opts rootOptions, args []string, p *prefs.Prefs, lookup func(string) (string, bool)) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}

	if last := p.String(prefs.KeyLastCatalog); last != "" {
		cfg.Catalog = last
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	if cmd.Flags().Changed("catalog") {
		cfg.Catalog = opts.catalog
	}
	if len(args) == 1 {
		cfg.Catalog = args[0]
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch = opts.watch
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client := &http.Client{Timeout: cfg.FetchTimeout}
	loader := catalog.NewLoader(cfg.Catalog, client, logger.Named("catalog"))
	images := image.NewFetcher(client, logger.Named("images"))
	state := app.NewState(loader, images, cfg.ViewerOptions(), logger.Named("app"))

	fa := fyneapp.NewWithID(appID)
	fa.Settings().SetTheme(&app.GalleryTheme{})

	p := prefs.Load()
	formatter := catalog.NewPriceFormatter(catalog.ParseLocale(cfg.Locale))
	mw := mainwindow.New(fa, state, p, formatter, gallery.Options{
		ThumbnailSize: cfg.ThumbnailSize,
		Workers:       cfg.Workers,
	}, logger.Named("ui"))

	logger.Info("starting gallery",
		zap.String("catalog", cfg.Catalog),
		zap.String("locale", cfg.Locale),
		zap.Float64("zoom_step", cfg.ZoomStep),
		zap.Bool("auto_fit", cfg.AutoFit))

	if cfg.Watch {
		if w := startWatcher(cfg, mw, logger); w != nil {
			defer w.Stop()
		}
	}

	go func() {
		<-ctx.Done()
		fa.Quit()
	}()

	mw.LoadSource(cfg.Catalog)
	mw.ShowAndRun()
	mw.SavePreferences()
	return nil
}

// startWatcher reloads the grid whenever a local catalog file changes.
func startWatcher(cfg config.Config, mw *mainwindow.MainWindow, logger *zap.Logger) *app.CatalogWatcher {
	if catalog.IsRemote(cfg.Catalog) {
		logger.Warn("watch ignored for remote catalog", zap.String("catalog", cfg.Catalog))
		return nil
	}
	w := app.NewCatalogWatcher(cfg.Catalog, cfg.WatchInterval)
	if w == nil {
		logger.Warn("unable to watch catalog", zap.String("catalog", cfg.Catalog))
		return nil
	}
	w.OnChange(func() {
		logger.Info("catalog changed, reloading", zap.String("catalog", w.Path()))
		mw.Reload()
	})
	w.Start()
	logger.Info("watching catalog", zap.String("catalog", w.Path()), zap.Duration("interval", cfg.WatchInterval))
	return w
}
