package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seenimoa/cryptodash/internal/dashboard"
	"github.com/seenimoa/cryptodash/pkg/models"
	"github.com/seenimoa/cryptodash/pkg/utils"
)

// --- Markets Command ---

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List the top assets, optionally filtered",
	Long: `List the top assets by market cap with optional filters.

Examples:
  cryptodash markets --cap large --change positive
  cryptodash markets --search sol
  cryptodash markets --min 1 --max 100 --vol-low 20
  cryptodash markets --apply budget`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}
		if key, _ := cmd.Flags().GetString("apply"); key != "" {
			if criteria, err = dashboard.ApplySuggestion(key, criteria); err != nil {
				return err
			}
		}

		snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		view, err := dashboard.BuildView(snap, criteria)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(os.Stdout, view)
		}
		printView(os.Stdout, view)
		return nil
	},
}

func init() {
	addFilterFlags(marketsCmd)
}

// addFilterFlags registers the filter flags read by criteriaFromFlags.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("search", "", "match name or symbol (case-insensitive)")
	f.String("price", "all", "price band: all, under1, 1to100, 100to1000, over1000")
	f.String("min", "", "custom minimum price")
	f.String("max", "", "custom maximum price")
	f.String("cap", "all", "market cap band: all, large, medium, small, micro")
	f.String("change", "all", "24h change band: all, positive, negative, high-gain, high-loss")
	f.Int("vol-low", 0, "volume window lower bound (0-100, percent of the volume span)")
	f.Int("vol-high", 100, "volume window upper bound (0-100)")
	f.String("apply", "", "apply a suggestion: high-performers, blue-chips, budget")
	f.Bool("json", false, "print the full view as JSON")
}

// criteriaFromFlags builds and validates filter criteria from the markets
// command flags.
func criteriaFromFlags(cmd *cobra.Command) (dashboard.FilterCriteria, error) {
	f := cmd.Flags()
	search, _ := f.GetString("search")
	price, _ := f.GetString("price")
	capBand, _ := f.GetString("cap")
	change, _ := f.GetString("change")
	volLow, _ := f.GetInt("vol-low")
	volHigh, _ := f.GetInt("vol-high")
	minRaw, _ := f.GetString("min")
	maxRaw, _ := f.GetString("max")

	min, err := dashboard.ParsePriceBound(minRaw)
	if err != nil {
		return dashboard.FilterCriteria{}, err
	}
	max, err := dashboard.ParsePriceBound(maxRaw)
	if err != nil {
		return dashboard.FilterCriteria{}, err
	}

	c := dashboard.DefaultCriteria().
		WithSearch(search).
		WithPriceBand(dashboard.PriceBand(price)).
		WithCustomPrice(min, max).
		WithMarketCapBand(dashboard.MarketCapBand(capBand)).
		WithChangeBand(dashboard.ChangeBand(change)).
		WithVolumeRange(volLow, volHigh)
	return c, c.Validate()
}

func printView(w io.Writer, v *dashboard.View) {
	if v.IsFiltered {
		fmt.Fprintf(w, "Showing %d of %d coins (%d filters active)\n\n", v.Shown, v.Total, v.ActiveCount)
	} else {
		fmt.Fprintf(w, "Showing %d coins\n\n", v.Total)
	}

	if len(v.Filtered) == 0 {
		fmt.Fprintln(w, "No coins match the current filters.")
		return
	}
	printAssets(w, v.Filtered)
}

func printAssets(w io.Writer, assets []models.AssetSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tCoin\tPrice\t24h\tMarket Cap\tVolume\t")
	for _, a := range assets {
		fmt.Fprintf(tw, "%d\t%s (%s)\t%s\t%s\t%s\t%s\t\n",
			a.MarketCapRank,
			a.Name, strings.ToUpper(a.Symbol),
			utils.FormatPrice(a.CurrentPrice),
			utils.FormatChange(a.PriceChangePercentage24h),
			utils.FormatMarketCap(a.MarketCap),
			utils.FormatMarketCap(a.TotalVolume),
		)
	}
	tw.Flush()
}

// --- Stats Command ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics and chart data",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		stats := dashboard.ComputeStats(snap.Assets)
		dist := dashboard.MarketCapDistribution(snap.Assets)
		top := dashboard.TopByMarketCap(snap.Assets, dashboard.TopChartSize)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(os.Stdout, map[string]interface{}{
				"stats":        stats,
				"distribution": dist,
				"top_assets":   top,
			})
		}

		fmt.Printf("Total Coins:        %d\n", stats.Total)
		fmt.Printf("Average Price:      %s\n", utils.FormatPrice(stats.AvgPrice))
		fmt.Printf("Total Market Cap:   %s\n", utils.FormatMarketCap(stats.TotalMarketCap))
		fmt.Printf("Positive 24h:       %d\n", stats.PositiveChangeCount)

		fmt.Println("\nMarket Cap Distribution:")
		for _, s := range dist {
			fmt.Printf("  %-24s %d\n", s.Name, s.Count)
		}

		fmt.Printf("\nTop %d by Market Cap:\n", len(top))
		for _, t := range top {
			fmt.Printf("  %-8s $%.2fB  %s\n", t.Symbol, t.MarketCapBillion, utils.FormatChange(t.Change))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "print as JSON")
}

// --- Insights Command ---

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show market sentiment, volatility and composition",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		ins, err := dashboard.ComputeInsights(snap.Assets)
		if errors.Is(err, dashboard.ErrEmptyCollection) {
			fmt.Println("No market data.")
			return nil
		}
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(os.Stdout, ins)
		}

		fmt.Printf("Market Sentiment:   %s (%.1f%% bullish)\n", ins.Sentiment, ins.BullishSentimentPct)
		fmt.Printf("Volatility:         %s (%.1f%% big movers)\n", ins.Volatility, ins.VolatilityPct)
		fmt.Printf("Average 24h Change: %s\n", utils.FormatPct(ins.AverageChange))
		fmt.Printf("Gainers / Losers:   %d / %d\n", ins.Gainers, ins.Losers)
		if ins.TopGainer != nil {
			fmt.Printf("Top Gainer:         %s %s\n", ins.TopGainer.Name, utils.FormatChange(ins.TopGainer.PriceChangePercentage24h))
		}
		if ins.TopLoser != nil {
			fmt.Printf("Top Loser:          %s %s\n", ins.TopLoser.Name, utils.FormatChange(ins.TopLoser.PriceChangePercentage24h))
		}
		fmt.Printf("24h Volume:         %s\n", utils.FormatMarketCap(ins.TotalVolume))

		c := ins.Composition
		fmt.Println("\nComposition:")
		fmt.Printf("  Large caps:       %d\n", c.LargeCaps)
		fmt.Printf("  Mid caps:         %d\n", c.MidCaps)
		fmt.Printf("  Small caps:       %d\n", c.SmallCaps)
		fmt.Printf("  Under $1:         %d\n", c.UnderOneDollar)
		fmt.Printf("  Over $1,000:      %d\n", c.OverThousand)
		return nil
	},
}

func init() {
	insightsCmd.Flags().Bool("json", false, "print as JSON")
}

// --- Suggest Command ---

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest filters based on the current market",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd)
		if err != nil {
			return err
		}
		suggestions := dashboard.GenerateSuggestions(snap.Assets)
		if len(suggestions) == 0 {
			fmt.Println("No suggestions for the current market.")
			return nil
		}
		for _, s := range suggestions {
			fmt.Printf("%-16s %s: %s\n", s.Key, s.Title, s.Description)
		}
		fmt.Println("\nApply one with: cryptodash markets --apply <key>")
		return nil
	},
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
