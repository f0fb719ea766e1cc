package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lucedivina/storefront/internal/api"
	"github.com/lucedivina/storefront/internal/auth"
	"github.com/lucedivina/storefront/internal/cart"
	"github.com/lucedivina/storefront/internal/catalog"
	"github.com/lucedivina/storefront/internal/config"
	"github.com/lucedivina/storefront/internal/fetcher"
	"github.com/lucedivina/storefront/internal/observability"
	"github.com/lucedivina/storefront/internal/scraper"
	"github.com/lucedivina/storefront/internal/settings"
	"github.com/lucedivina/storefront/internal/storage"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lucedivina",
		Short: "Luce Divina — storefront backend for books and Christian music",
		Long: `Luce Divina is the backend for a small storefront selling books and
Christian music. It serves the catalog, site settings, session carts,
and the admin panel, and extracts product metadata (title, author,
price, cover image, ISBN) from remote product pages.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand: the full API server.
func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f, err := newFetcher(cfg, logger)
			if err != nil {
				return fmt.Errorf("create fetcher: %w", err)
			}
			defer f.Close()

			store, err := storage.New(cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("create storage: %w", err)
			}
			defer store.Close()

			cartStore, err := cart.NewStore(cfg.Cart, logger)
			if err != nil {
				return fmt.Errorf("create cart store: %w", err)
			}
			defer cartStore.Close()

			catalogSvc, err := catalog.NewService(ctx, store, logger)
			if err != nil {
				return fmt.Errorf("create catalog: %w", err)
			}
			settingsSvc, err := settings.NewService(ctx, store, logger)
			if err != nil {
				return fmt.Errorf("create settings: %w", err)
			}

			var metrics *observability.Metrics
			if cfg.Metrics.Enabled {
				metrics = observability.NewMetrics()
				metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path, logger)
			}

			extractor := scraper.New(f, logger, scraper.WithMetrics(metrics))

			srv := api.NewServer(cfg.Server, api.Deps{
				Extractor: extractor,
				Catalog:   catalogSvc,
				Settings:  settingsSvc,
				Cart:      cart.NewService(cartStore, store, logger),
				Auth:      auth.NewManager(cfg.Auth.PasswordHash, cfg.Auth.TokenTTL, logger),
				Metrics:   metrics,
			}, logger)

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "override the listen port")
	return cmd
}

// scrapeCmd creates the "scrape" subcommand: one-shot extraction from
// the command line, printing the metadata record as JSON.
func scrapeCmd() *cobra.Command {
	var useBrowser bool

	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Extract product metadata from a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if useBrowser {
				cfg.Fetcher.Type = "browser"
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f, err := newFetcher(cfg, logger)
			if err != nil {
				return fmt.Errorf("create fetcher: %w", err)
			}
			defer f.Close()

			extractor := scraper.New(f, logger)
			meta := extractor.Extract(ctx, args[0])

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}

	cmd.Flags().BoolVar(&useBrowser, "browser", false, "use the headless browser fetcher")
	return cmd
}

// seedCmd creates the "seed" subcommand: reset the catalog to the
// starter products.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the catalog to the starter products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := storage.New(cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("create storage: %w", err)
			}
			defer store.Close()

			if err := store.ReplaceProducts(ctx, catalog.SeedProducts()); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			fmt.Printf("Catalog seeded with %d products (%s backend)\n",
				len(catalog.SeedProducts()), store.Name())
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lucedivina %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Server:\n")
			fmt.Printf("  Port:             %d\n", cfg.Server.Port)
			fmt.Printf("  CORS Origin:      %s\n", cfg.Server.CORSOrigin)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:             %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Follow Redirects: %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:    %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:      %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:             %s\n", cfg.Storage.Type)
			fmt.Printf("  Path:             %s\n", cfg.Storage.Path)
			fmt.Printf("\nCart:\n")
			fmt.Printf("  Store:            %s\n", cfg.Cart.Store)
			fmt.Printf("  TTL:              %s\n", cfg.Cart.TTL)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:             %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// loadConfig loads and validates configuration and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(cfg.Logging), nil
}

// setupLogger creates a structured logger per the logging config.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// newFetcher creates the configured document fetcher.
func newFetcher(cfg *config.Config, logger *slog.Logger) (fetcher.Fetcher, error) {
	if cfg.Fetcher.Type == "browser" {
		return fetcher.NewBrowserFetcher(cfg, logger)
	}
	return fetcher.NewHTTPFetcher(cfg, logger)
}
