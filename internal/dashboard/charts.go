package dashboard

import (
	"strings"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// DistributionSlice is one slice of the market-cap pie chart.
type DistributionSlice struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopAsset is one bar of the top-by-market-cap chart.
type TopAsset struct {
	Symbol           string   `json:"symbol"`
	MarketCapBillion float64  `json:"market_cap_billion"`
	Change           *float64 `json:"change"`
}

// MarketCapDistribution buckets assets into Large, Mid, Small and Micro
// caps. Empty buckets are omitted.
func MarketCapDistribution(assets []models.AssetSummary) []DistributionSlice {
	buckets := []DistributionSlice{
		{Name: "Large Cap (>$10B)"},
		{Name: "Mid Cap ($1B-$10B)"},
		{Name: "Small Cap ($100M-$1B)"},
		{Name: "Micro Cap (<$100M)"},
	}
	for _, a := range assets {
		switch {
		case a.MarketCap >= LargeCapMin:
			buckets[0].Count++
		case a.MarketCap >= MidCapMin:
			buckets[1].Count++
		case a.MarketCap >= SmallCapMin:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}

	out := make([]DistributionSlice, 0, len(buckets))
	for _, s := range buckets {
		if s.Count > 0 {
			out = append(out, s)
		}
	}
	return out
}

// TopByMarketCap returns the first n assets as chart bars. The upstream
// list is already ordered by market cap descending.
func TopByMarketCap(assets []models.AssetSummary, n int) []TopAsset {
	if n > len(assets) {
		n = len(assets)
	}
	if n < 0 {
		n = 0
	}
	out := make([]TopAsset, 0, n)
	for _, a := range assets[:n] {
		out = append(out, TopAsset{
			Symbol:           strings.ToUpper(a.Symbol),
			MarketCapBillion: a.MarketCap / 1e9,
			Change:           copyFloat(a.PriceChangePercentage24h),
		})
	}
	return out
}
