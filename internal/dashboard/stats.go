package dashboard

import "github.com/seenimoa/cryptodash/pkg/models"

// Stats are the headline numbers shown above the table.
type Stats struct {
	Total               int     `json:"total"`
	AvgPrice            float64 `json:"avg_price"`
	TotalMarketCap      float64 `json:"total_market_cap"`
	PositiveChangeCount int     `json:"positive_change_count"`
}

// ComputeStats summarises assets. An empty collection yields zero Stats.
func ComputeStats(assets []models.AssetSummary) Stats {
	if len(assets) == 0 {
		return Stats{}
	}

	var s Stats
	priceSum := 0.0
	for _, a := range assets {
		priceSum += a.CurrentPrice
		s.TotalMarketCap += a.MarketCap
		if change, ok := a.Change(); ok && change > 0 {
			s.PositiveChangeCount++
		}
	}
	s.Total = len(assets)
	s.AvgPrice = priceSum / float64(s.Total)
	return s
}
