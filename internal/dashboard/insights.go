package dashboard

import (
	"errors"
	"math"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// ErrEmptyCollection is returned by ComputeInsights for an empty collection.
var ErrEmptyCollection = errors.New("empty asset collection")

// Insights is the market overview derived from the whole collection.
type Insights struct {
	AverageChange       float64              `json:"average_change"`
	TopGainer           *models.AssetSummary `json:"top_gainer,omitempty"`
	TopLoser            *models.AssetSummary `json:"top_loser,omitempty"`
	Gainers             int                  `json:"gainers"`
	Losers              int                  `json:"losers"`
	BigMovers           int                  `json:"big_movers"`
	BullishSentimentPct float64              `json:"bullish_sentiment_pct"`
	VolatilityPct       float64              `json:"volatility_pct"`
	Sentiment           string               `json:"sentiment"`
	Volatility          string               `json:"volatility"`
	Composition         Composition          `json:"composition"`
	TotalVolume         float64              `json:"total_volume"`
}

// Composition counts assets per market-cap tier and price extreme.
// Micro caps have no bucket here.
type Composition struct {
	LargeCaps      int `json:"large_caps"`
	MidCaps        int `json:"mid_caps"`
	SmallCaps      int `json:"small_caps"`
	UnderOneDollar int `json:"under_one_dollar"`
	OverThousand   int `json:"over_thousand"`
}

// ComputeInsights classifies the market. Assets without a known 24h change
// count toward the total but never toward gainers, losers or big movers.
func ComputeInsights(assets []models.AssetSummary) (Insights, error) {
	if len(assets) == 0 {
		return Insights{}, ErrEmptyCollection
	}

	var (
		ins       Insights
		changeSum float64
		known     int
		gainerIdx = -1
		loserIdx  = -1
	)

	for i, a := range assets {
		ins.TotalVolume += a.TotalVolume

		switch {
		case a.MarketCap >= LargeCapMin:
			ins.Composition.LargeCaps++
		case a.MarketCap >= MidCapMin:
			ins.Composition.MidCaps++
		case a.MarketCap >= SmallCapMin:
			ins.Composition.SmallCaps++
		}
		if a.CurrentPrice < 1 {
			ins.Composition.UnderOneDollar++
		}
		if a.CurrentPrice > 1000 {
			ins.Composition.OverThousand++
		}

		change, ok := a.Change()
		if !ok {
			continue
		}
		known++
		changeSum += change
		if change > 0 {
			ins.Gainers++
		}
		if change < 0 {
			ins.Losers++
		}
		if math.Abs(change) > BigMoveThreshold {
			ins.BigMovers++
		}
		if gainerIdx < 0 || change > *assets[gainerIdx].PriceChangePercentage24h {
			gainerIdx = i
		}
		if loserIdx < 0 || change < *assets[loserIdx].PriceChangePercentage24h {
			loserIdx = i
		}
	}

	if known > 0 {
		ins.AverageChange = changeSum / float64(known)
		gainer, loser := assets[gainerIdx], assets[loserIdx]
		ins.TopGainer = &gainer
		ins.TopLoser = &loser
	}

	total := float64(len(assets))
	ins.BullishSentimentPct = float64(ins.Gainers) / total * 100
	ins.VolatilityPct = float64(ins.BigMovers) / total * 100
	ins.Sentiment = SentimentLabel(ins.BullishSentimentPct)
	ins.Volatility = VolatilityLabel(ins.VolatilityPct)

	return ins, nil
}

// SentimentLabel maps the share of gaining assets to a label.
func SentimentLabel(bullishPct float64) string {
	switch {
	case bullishPct > 70:
		return "Extremely Bullish"
	case bullishPct > 55:
		return "Bullish"
	case bullishPct > 45:
		return "Neutral"
	case bullishPct > 30:
		return "Bearish"
	default:
		return "Extremely Bearish"
	}
}

// VolatilityLabel maps the share of big movers to a label.
func VolatilityLabel(volatilityPct float64) string {
	switch {
	case volatilityPct > 40:
		return "Very High"
	case volatilityPct > 25:
		return "High"
	case volatilityPct > 15:
		return "Moderate"
	default:
		return "Low"
	}
}
