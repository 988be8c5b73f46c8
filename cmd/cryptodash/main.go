// Command cryptodash is the crypto market dashboard CLI and API server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seenimoa/cryptodash/internal/config"
	"github.com/seenimoa/cryptodash/internal/datasource"
	"github.com/seenimoa/cryptodash/internal/infra"
	"github.com/seenimoa/cryptodash/internal/logging"
	"github.com/seenimoa/cryptodash/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set in PersistentPreRunE.
var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cryptodash",
	Short: "cryptodash: crypto market dashboard",
	Long: `cryptodash
Lists the top crypto assets by market cap, filters them by price, market
cap, 24h change and volume, and derives market statistics, insights and
filter suggestions. Also serves the same views as a JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("input", "", "read the market list from a JSON file instead of CoinGecko")
	rootCmd.PersistentFlags().Bool("refresh", false, "ignore a stored snapshot and refetch")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(marketsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(coinCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Wiring ---

// newMarketSource returns the file source when --input is set, CoinGecko
// otherwise.
func newMarketSource(cmd *cobra.Command) datasource.MarketSource {
	if path, _ := cmd.Flags().GetString("input"); path != "" {
		return datasource.NewFileSource(path, cfg.CoinGecko.VsCurrency)
	}
	cg := cfg.CoinGecko
	return datasource.NewCoinGecko(datasource.CoinGeckoOptions{
		BaseURL:         cg.BaseURL,
		APIKey:          cg.APIKey,
		VsCurrency:      cg.VsCurrency,
		PerPage:         cg.PerPage,
		MaxRetries:      cg.MaxRetries,
		RetryDelay:      cg.RetryDelay(),
		Timeout:         cg.Timeout(),
		CacheTTL:        cg.CacheDuration(),
		RateLimitPerSec: cg.RateLimitPerSec,
	}, log)
}

func newNewsSource() *datasource.News {
	sources := make([]datasource.NewsSource, 0, len(cfg.News.Feeds))
	for _, f := range cfg.News.Feeds {
		sources = append(sources, datasource.NewsSource{Name: f.Name, RSSURL: f.URL})
	}
	return datasource.NewNews(sources, cfg.News.CacheDuration(), log)
}

func newStore(ctx context.Context) (infra.SnapshotStore, error) {
	return infra.NewSnapshotStore(ctx, infra.StoreOptions{
		Backend:  cfg.Cache.Backend,
		RedisURL: cfg.Cache.RedisURL,
		TTL:      cfg.Cache.TTLDuration(),
	})
}

// loadSnapshot returns the market list for one-shot commands. With the
// redis backend a stored snapshot is reused unless --refresh is set; file
// input always bypasses the store.
func loadSnapshot(cmd *cobra.Command) (*models.Snapshot, error) {
	ctx := cmd.Context()
	market := newMarketSource(cmd)
	if _, ok := market.(*datasource.FileSource); ok || cfg.Cache.Backend != "redis" {
		return market.ListMarkets(ctx)
	}

	store, err := newStore(ctx)
	if err != nil {
		log.WithError(err).Warn("snapshot store unavailable, fetching directly")
		return market.ListMarkets(ctx)
	}
	defer store.Close()

	if refresh, _ := cmd.Flags().GetBool("refresh"); !refresh {
		if snap, err := store.Latest(ctx); err == nil {
			log.WithField("snapshot", snap.ID).Debug("using stored snapshot")
			return snap, nil
		}
	}

	snap, err := market.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, snap); err != nil {
		log.WithError(err).Warn("failed to store snapshot")
	}
	return snap, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Version needs no config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cryptodash %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		rule := strings.Repeat("═", 39)
		fmt.Println(rule)
		fmt.Println("  cryptodash System Status")
		fmt.Println(rule)
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Market Source: %s\n", newMarketSource(cmd).Name())
		fmt.Printf("    Currency:      %s (top %d)\n", cfg.CoinGecko.VsCurrency, cfg.CoinGecko.PerPage)
		fmt.Printf("    News Feeds:    %d\n", len(newNewsSource().Sources()))
		fmt.Printf("    Cache:         %s (ttl %ds)\n", cfg.Cache.Backend, cfg.Cache.TTL)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Logging:       %s/%s\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "not set"
			if k.Optional {
				status += " (optional)"
			}
			if k.IsSet {
				status = fmt.Sprintf("set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println(rule)
		return nil
	},
}
