package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seenimoa/cryptodash/internal/datasource"
	"github.com/seenimoa/cryptodash/pkg/models"
	"github.com/seenimoa/cryptodash/pkg/utils"
)

// --- Coin Command ---

var coinCmd = &cobra.Command{
	Use:   "coin [id]",
	Short: "Show the detail view of one asset",
	Long: `Show the detail view of one asset by its CoinGecko id.

Examples:
  cryptodash coin bitcoin
  cryptodash coin solana --news --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.ToLower(strings.TrimSpace(args[0]))
		withNews, _ := cmd.Flags().GetBool("news")
		limit, _ := cmd.Flags().GetInt("limit")

		var news *datasource.News
		if withNews {
			news = newNewsSource()
		}
		agg := datasource.NewAggregator(newMarketSource(cmd), news, log)

		// The list row adds rank and 24h data; it is optional.
		var summary *models.AssetSummary
		if snap, err := loadSnapshot(cmd); err == nil {
			if a, ok := snap.Find(id); ok {
				summary = &a
			}
		} else {
			log.WithError(err).Debug("market list unavailable")
		}

		report, err := agg.FetchAssetReport(cmd.Context(), id, summary, withNews, limit)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(os.Stdout, report)
		}
		printReport(report)
		return nil
	},
}

func init() {
	coinCmd.Flags().Bool("news", false, "include related news and sentiment")
	coinCmd.Flags().Int("limit", 10, "maximum number of news articles")
	coinCmd.Flags().Bool("json", false, "print as JSON")
}

func printReport(r *datasource.AssetReport) {
	d := r.Detail
	fmt.Printf("%s (%s)\n", d.Name, strings.ToUpper(d.Symbol))
	if s := r.Summary; s != nil {
		fmt.Printf("  Rank:            #%d\n", s.MarketCapRank)
		fmt.Printf("  Market Cap:      %s\n", utils.FormatMarketCap(s.MarketCap))
		fmt.Printf("  24h Volume:      %s\n", utils.FormatMarketCap(s.TotalVolume))
		fmt.Printf("  24h Change:      %s\n", utils.FormatChange(s.PriceChangePercentage24h))
	}
	fmt.Printf("  Price:           %s\n", utils.FormatOptional(d.CurrentPrice, utils.FormatPrice))
	fmt.Printf("  All-Time High:   %s\n", utils.FormatOptional(d.ATH, utils.FormatPrice))
	fmt.Printf("  7d Change:       %s\n", utils.FormatChange(d.PriceChangePercentage7d))
	fmt.Printf("  30d Change:      %s\n", utils.FormatChange(d.PriceChangePercentage30d))
	fmt.Printf("  Circulating:     %s\n", utils.FormatOptional(d.Supply.Circulating, utils.FormatNumber))
	fmt.Printf("  Max Supply:      %s\n", utils.FormatOptional(d.Supply.Max, utils.FormatNumber))
	if d.GenesisDate != "" {
		fmt.Printf("  Genesis:         %s\n", d.GenesisDate)
	}
	if len(d.Categories) > 0 {
		fmt.Printf("  Categories:      %s\n", strings.Join(d.Categories, ", "))
	}
	if d.HasCommunity() {
		fmt.Printf("  Twitter:         %s\n", formatCount(d.Community.TwitterFollowers))
		fmt.Printf("  Reddit:          %s\n", formatCount(d.Community.RedditSubscribers))
	}
	if d.Links.Homepage != "" {
		fmt.Printf("  Homepage:        %s\n", d.Links.Homepage)
	}

	if r.Sentiment != nil && len(r.News) > 0 {
		fmt.Printf("\nNews sentiment: %s (%.2f, %d articles)\n", r.Sentiment.Label, r.Sentiment.Score, len(r.News))
		printArticles(r.News)
	}
	for _, w := range r.Warnings {
		fmt.Printf("\nwarning: %s\n", w)
	}
}

func formatCount(n *int64) string {
	if n == nil {
		return "N/A"
	}
	return utils.FormatNumber(float64(*n))
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show recent crypto news with sentiment",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.News.Limit
		}

		agg := datasource.NewAggregator(newMarketSource(cmd), newNewsSource(), log)
		articles, sent, err := agg.MarketNews(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(os.Stdout, map[string]interface{}{
				"articles":  articles,
				"sentiment": sent,
			})
		}
		if len(articles) == 0 {
			fmt.Println("No news.")
			return nil
		}
		fmt.Printf("Market news sentiment: %s (%.2f)\n", sent.Label, sent.Score)
		printArticles(articles)
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 0, "maximum number of articles (default: news.limit)")
	newsCmd.Flags().Bool("json", false, "print as JSON")
}

func printArticles(articles []models.NewsArticle) {
	for _, a := range articles {
		fmt.Printf("\n  %s\n", a.Title)
		fmt.Printf("    %s · %s\n", a.Source, a.PublishedAt.Format("2006-01-02 15:04"))
		fmt.Printf("    %s\n", a.URL)
	}
}
