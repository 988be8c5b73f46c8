package dashboard

import (
	"fmt"

	"github.com/seenimoa/cryptodash/pkg/models"
)

func pct(v float64) *float64 { return &v }

func asset(id string, price, marketCap, volume float64, change *float64) models.AssetSummary {
	return models.AssetSummary{
		ID:                       id,
		Symbol:                   id,
		Name:                     "Coin " + id,
		CurrentPrice:             price,
		MarketCap:                marketCap,
		TotalVolume:              volume,
		PriceChangePercentage24h: change,
	}
}

func sampleAssets() []models.AssetSummary {
	return []models.AssetSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 67000, MarketCap: 1.3e12, TotalVolume: 30e9, PriceChangePercentage24h: pct(2.5)},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3500, MarketCap: 420e9, TotalVolume: 15e9, PriceChangePercentage24h: pct(-1.2)},
		{ID: "solana", Symbol: "sol", Name: "Solana", CurrentPrice: 150, MarketCap: 65e9, TotalVolume: 3e9, PriceChangePercentage24h: pct(12.4)},
		{ID: "chainlink", Symbol: "link", Name: "Chainlink", CurrentPrice: 15, MarketCap: 8.5e9, TotalVolume: 400e6, PriceChangePercentage24h: pct(-11)},
		{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin", CurrentPrice: 0.12, MarketCap: 17e9, TotalVolume: 1e9, PriceChangePercentage24h: pct(0)},
		{ID: "pepe", Symbol: "pepe", Name: "Pepe", CurrentPrice: 0.0000089, MarketCap: 3.7e9, TotalVolume: 600e6, PriceChangePercentage24h: nil},
		{ID: "render-token", Symbol: "rndr", Name: "Render", CurrentPrice: 7.2, MarketCap: 400e6, TotalVolume: 90e6, PriceChangePercentage24h: pct(4)},
		{ID: "tiny", Symbol: "tny", Name: "Tiny Token", CurrentPrice: 0.02, MarketCap: 20e6, TotalVolume: 1e6, PriceChangePercentage24h: pct(-3)},
	}
}

func ids(assets []models.AssetSummary) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func syntheticAssets(n int, build func(i int) models.AssetSummary) []models.AssetSummary {
	out := make([]models.AssetSummary, n)
	for i := range out {
		out[i] = build(i)
		if out[i].ID == "" {
			out[i].ID = fmt.Sprintf("coin-%d", i)
		}
	}
	return out
}
